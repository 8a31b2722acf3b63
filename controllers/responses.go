package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/lifecycle"
	"github.com/kendall-kelly/curtainry-specialist-api/measurement"
	"github.com/kendall-kelly/curtainry-specialist-api/metrics"
	"github.com/kendall-kelly/curtainry-specialist-api/middleware"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
)

// now is the clock used by date-relative reports
var now = time.Now

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondErrorDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// currentSpecialist returns the caller's ID and role, writing a 401 when either is missing
func currentSpecialist(c *gin.Context) (uint, string, bool) {
	id, err := middleware.GetSpecialistID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return 0, "", false
	}
	role, err := middleware.GetRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return 0, "", false
	}
	return id, role, true
}

// writeOrderError maps repository and lifecycle errors to responses and returns the metrics outcome
func writeOrderError(c *gin.Context, err error) string {
	var rejection *lifecycle.Rejection
	var validation *measurement.ValidationError

	switch {
	case errors.As(err, &rejection):
		switch rejection.Reason {
		case lifecycle.NotFound:
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		case lifecycle.InvalidRole:
			respondError(c, http.StatusForbidden, string(lifecycle.InvalidRole), rejection.Message)
		default:
			respondError(c, http.StatusConflict, string(lifecycle.InvalidState), rejection.Message)
		}
		return strings.ToLower(string(rejection.Reason))

	case errors.Is(err, services.ErrVersionConflict):
		respondError(c, http.StatusConflict, "VERSION_CONFLICT", "Order was modified by another request, reload and try again")
		return metrics.OutcomeConflict

	case errors.As(err, &validation):
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid measurement", validation.Fields)
		return "validation_error"
	}

	slog.Error("Order operation failed", "error", err, "path", c.Request.URL.Path)
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to process order")
	return metrics.OutcomeError
}

// loadOwnedOrder fetches an order for the caller, writing a 404 when it is missing or not theirs
func loadOwnedOrder(c *gin.Context, specialistID uint) (*models.Order, bool) {
	order, err := services.GetOrderRepository().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeOrderError(c, err)
		return nil, false
	}
	if order.AssignedTo != specialistID {
		writeOrderError(c, services.ErrOrderNotFound)
		return nil, false
	}
	return order, true
}
