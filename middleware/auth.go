package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Role string `json:"role"`
}

// Validate rejects tokens that were not issued to a specialist.
func (c CustomClaims) Validate(ctx context.Context) error {
	if !models.IsSpecialistRole(c.Role) {
		return fmt.Errorf("token role %q is not a specialist role", c.Role)
	}
	return nil
}

// NewTokenValidator builds the HS256 validator for tokens issued by the auth service
func NewTokenValidator(cfg *config.Config) (*validator.Validator, error) {
	switch {
	case cfg.JWTSecret == "":
		return nil, fmt.Errorf("jwt secret is required")
	case cfg.JWTIssuer == "":
		return nil, fmt.Errorf("jwt issuer is required")
	case cfg.JWTAudience == "":
		return nil, fmt.Errorf("jwt audience is required")
	}

	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	return validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// A configuration that cannot produce a validator stops the process.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	handler, err := NewAuthMiddleware(cfg)
	if err != nil {
		slog.Error("Failed to set up the jwt validator", "error", err)
		os.Exit(1)
	}
	return handler
}

// NewAuthMiddleware builds the token-checking middleware for cfg
func NewAuthMiddleware(cfg *config.Config) (gin.HandlerFunc, error) {
	jwtValidator, err := NewTokenValidator(cfg)
	if err != nil {
		return nil, err
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		slog.Info("Encountered error while validating JWT", "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			slog.Error("Failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		validated := false

		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			claims := token.CustomClaims.(*CustomClaims)

			c.Request = r
			c.Set("user_id", token.RegisteredClaims.Subject)
			c.Set("role", claims.Role)
			c.Set("validated_claims", token)
			validated = true

			c.Next()
		}

		// Use the JWT middleware to check the token
		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// The error handler already wrote the response
		if !validated {
			c.Abort()
		}
	}, nil
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetSpecialistID returns the authenticated specialist's numeric ID
func GetSpecialistID(c *gin.Context) (uint, error) {
	raw, err := GetUserID(c)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a specialist ID"}
	}
	return uint(id), nil
}

// GetRole extracts the specialist role from the Gin context
func GetRole(c *gin.Context) (string, error) {
	role, exists := c.Get("role")
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	roleStr, ok := role.(string)
	if !ok || !models.IsSpecialistRole(roleStr) {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not a specialist role"}
	}

	return roleStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireRole is a middleware that only lets the given roles through
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetRole(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_ROLE",
					"message": "Could not determine the caller's role",
				},
			})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ROLE",
				"message": fmt.Sprintf("This action is not available to %ss", role),
			},
		})
		c.Abort()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
