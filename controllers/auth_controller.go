package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/metrics"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
)

// LoginRequest represents the request body for a specialist login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=consultant fitter"`
}

// LoginResponse carries the access token and the authenticated specialist
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a bearer token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	authService := services.GetAuthService()
	user, err := authService.Authenticate(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			metrics.ObserveLogin(req.Role, "invalid_credentials")
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username, password or role")
			return
		}
		slog.Error("Login failed", "username", req.Username, "error", err)
		metrics.ObserveLogin(req.Role, metrics.OutcomeError)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to authenticate")
		return
	}

	token, expiresAt, err := authService.IssueToken(user)
	if err != nil {
		slog.Error("Failed to issue token", "user_id", user.ID, "error", err)
		metrics.ObserveLogin(req.Role, metrics.OutcomeError)
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue access token")
		return
	}
	metrics.ObserveLogin(req.Role, "success")

	services.GetSessionMirror().Remember(c.Writer, c.Request, user.Role, user.ID, "/dashboard")
	slog.Info("Specialist logged in", "user_id", user.ID, "role", user.Role)

	respondSuccess(c, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// Logout handles POST /api/v1/auth/logout - clears the session mirror.
// Bearer tokens are stateless and simply expire.
func Logout(c *gin.Context) {
	services.GetSessionMirror().Forget(c.Writer, c.Request)
	respondSuccess(c, http.StatusOK, gin.H{"logged_out": true})
}
