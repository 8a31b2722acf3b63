package testutil

import (
	"strconv"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/middleware"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"gorm.io/gorm"
)

// TestSessionKey is a 32-byte cookie signing key for tests
const TestSessionKey = "0123456789abcdef0123456789abcdef"

// TestConfig returns a configuration suitable for signing and validating test tokens
func TestConfig() *config.Config {
	return &config.Config{
		DBDriver:           config.DriverSQLite,
		GoEnv:              "test",
		JWTSecret:          "integration-test-secret",
		JWTIssuer:          "curtainry-specialist-api",
		JWTAudience:        "curtainry-specialists",
		TokenTTLHours:      1,
		SessionKey:         TestSessionKey,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
}

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "curtainry-specialist-api",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Role: role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID uint, role string) {
	subject := strconv.FormatUint(uint64(userID), 10)
	c.Set("user_id", subject)
	c.Set("role", role)
	c.Set("validated_claims", MockValidatedClaims(subject, role))
}

// MockAuthMiddleware authenticates every request as the given specialist
func MockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, role)
		c.Next()
	}
}

// IssueToken signs a real bearer token for user with the auth service
func IssueToken(t *testing.T, db *gorm.DB, cfg *config.Config, user models.User) string {
	t.Helper()

	token, _, err := services.NewAuthService(db, cfg).IssueToken(&user)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}
