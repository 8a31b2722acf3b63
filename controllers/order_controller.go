package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/lifecycle"
	"github.com/kendall-kelly/curtainry-specialist-api/measurement"
	"github.com/kendall-kelly/curtainry-specialist-api/metrics"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
)

// TransitionRequest represents the request body for a lifecycle action
type TransitionRequest struct {
	Action  string `json:"action" binding:"required"`
	Version *int   `json:"version"`
}

// TransitionResponse is the order state after an applied action
type TransitionResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Visited bool   `json:"visited"`
	Version int    `json:"version"`
}

// AppendRoomRequest represents the request body for a room measurement
type AppendRoomRequest struct {
	measurement.Input
	Version *int `json:"version"`
}

// ListOrders handles GET /api/v1/orders - lists the caller's orders
// Supports ?status=, ?order_type=, ?date=YYYY-MM-DD and ?priority= filters
func ListOrders(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	filter, err := lifecycle.ParseFilter(c.Query("status"), c.Query("order_type"), c.Query("date"), c.Query("priority"))
	if err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid filter", err.Error())
		return
	}

	orders, err := services.GetOrderRepository().List(c.Request.Context(), specialistID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	services.GetSessionMirror().Remember(c.Writer, c.Request, role, specialistID, "/orders")

	respondSuccess(c, http.StatusOK, models.ViewsFor(filter.Apply(orders), role))
}

// GetOrder handles GET /api/v1/orders/:id - returns one order with its rooms
func GetOrder(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	order, ok := loadOwnedOrder(c, specialistID)
	if !ok {
		return
	}

	respondSuccess(c, http.StatusOK, order.ViewFor(role))
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - accept, reject, visit or complete
func TransitionOrder(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	action, err := lifecycle.ParseAction(req.Action)
	if err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid action", err.Error())
		return
	}

	order, err := services.GetOrderRepository().ApplyTransition(c.Request.Context(), c.Param("id"), services.TransitionRequest{
		Action:          action,
		Role:            role,
		ActorID:         specialistID,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		metrics.ObserveTransition(string(action), writeOrderError(c, err))
		return
	}
	metrics.ObserveTransition(string(action), metrics.OutcomeApplied)

	respondSuccess(c, http.StatusOK, TransitionResponse{
		ID:      order.ID,
		Status:  order.Status,
		Visited: order.Visited,
		Version: order.Version,
	})
}

// AppendRoom handles POST /api/v1/orders/:id/rooms - records a room measurement (consultants only)
func AppendRoom(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	var req AppendRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	room, err := services.GetOrderRepository().AppendRoom(c.Request.Context(), c.Param("id"), services.AppendRoomRequest{
		Measurement:     req.Input,
		Role:            role,
		ActorID:         specialistID,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		metrics.ObserveRoomAppend(writeOrderError(c, err))
		return
	}
	metrics.ObserveRoomAppend(metrics.OutcomeApplied)

	respondSuccess(c, http.StatusCreated, room)
}

// GetOrderHistory handles GET /api/v1/orders/:id/history - lists applied transitions
func GetOrderHistory(c *gin.Context) {
	specialistID, _, ok := currentSpecialist(c)
	if !ok {
		return
	}

	order, ok := loadOwnedOrder(c, specialistID)
	if !ok {
		return
	}

	events, err := services.GetOrderRepository().History(c.Request.Context(), order.ID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, events)
}

// ListRoomTypes handles GET /api/v1/room-types
func ListRoomTypes(c *gin.Context) {
	respondSuccess(c, http.StatusOK, measurement.RoomTypes)
}
