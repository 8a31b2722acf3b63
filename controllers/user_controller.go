package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
)

// UpdateUserRequest represents the request body for updating a specialist profile
type UpdateUserRequest struct {
	Name           string `json:"name" binding:"omitempty"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone" binding:"omitempty"`
	Location       string `json:"location" binding:"omitempty"`
	Specialization string `json:"specialization" binding:"omitempty"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// GetMyProfile handles GET /api/v1/users/me - gets current specialist's profile
func GetMyProfile(c *gin.Context) {
	specialistID, _, ok := currentSpecialist(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, specialistID).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found")
		return
	}

	respondSuccess(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current specialist's profile.
// Username and role are fixed at creation.
func UpdateMyProfile(c *gin.Context) {
	specialistID, _, ok := currentSpecialist(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, specialistID).Error; err != nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.Specialization != "" {
		updates["specialization"] = req.Specialization
	}

	if len(updates) == 0 {
		respondSuccess(c, http.StatusOK, user)
		return
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		// Works with both PostgreSQL and SQLite error texts
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user profile")
		return
	}

	if err := db.First(&user, specialistID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated profile")
		return
	}

	respondSuccess(c, http.StatusOK, user)
}

// ChangeMyPassword handles PUT /api/v1/users/me/password
func ChangeMyPassword(c *gin.Context) {
	specialistID, _, ok := currentSpecialist(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	err := services.GetAuthService().ChangePassword(c.Request.Context(), specialistID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		respondSuccess(c, http.StatusOK, gin.H{"password_changed": true})
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password is incorrect")
	case errors.Is(err, services.ErrWeakPassword):
		respondError(c, http.StatusBadRequest, "WEAK_PASSWORD", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to change password")
	}
}
