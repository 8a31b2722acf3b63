package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
)

// UpdateRouteRequest represents the request body for recording the current view
type UpdateRouteRequest struct {
	Route string `json:"route" binding:"required"`
}

// GetSession handles GET /api/v1/session - returns the mirrored session, or null when absent or expired
func GetSession(c *gin.Context) {
	specialistID, _, ok := currentSpecialist(c)
	if !ok {
		return
	}

	snapshot := services.GetSessionMirror().Resume(c.Request, specialistID)
	if snapshot == nil {
		respondSuccess(c, http.StatusOK, nil)
		return
	}
	respondSuccess(c, http.StatusOK, snapshot)
}

// UpdateSessionRoute handles PUT /api/v1/session/route. Persistence is best-effort.
func UpdateSessionRoute(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	var req UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	services.GetSessionMirror().Remember(c.Writer, c.Request, role, specialistID, req.Route)
	respondSuccess(c, http.StatusOK, gin.H{"route": req.Route})
}
