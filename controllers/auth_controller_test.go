package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/middleware"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSessionKey = []byte("0123456789abcdef0123456789abcdef")

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "controller-test-secret",
		JWTIssuer:     "curtainry-specialist-api",
		JWTAudience:   "curtainry-specialists",
		TokenTTLHours: 1,
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Consultant login",
			body:           map[string]interface{}{"username": "raj_consultant", "password": testPassword, "role": "consultant"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fitter login",
			body:           map[string]interface{}{"username": "kumar_fitter", "password": testPassword, "role": "fitter"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wrong password",
			body:           map[string]interface{}{"username": "raj_consultant", "password": "nope", "role": "consultant"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "Role mismatch",
			body:           map[string]interface{}{"username": "raj_consultant", "password": testPassword, "role": "fitter"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "Unknown user",
			body:           map[string]interface{}{"username": "ghost", "password": testPassword, "role": "fitter"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name:           "Unsupported role",
			body:           map[string]interface{}{"username": "raj_consultant", "password": testPassword, "role": "admin"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Missing password",
			body:           map[string]interface{}{"username": "raj_consultant", "role": "consultant"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			services.SetAuthService(services.NewAuthService(env.db, testConfig()))
			services.SetSessionMirror(services.NewSessionMirror(testSessionKey, false))

			router := setupTestRouter()
			router.POST("/api/v1/auth/login", Login)

			w := performJSON(router, http.MethodPost, "/api/v1/auth/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				assert.Empty(t, w.Header().Get("Set-Cookie"))
				return
			}

			data := decodeBody(t, w)["data"].(map[string]interface{})
			assert.NotEmpty(t, data["token"])
			assert.Equal(t, "Bearer", data["token_type"])
			assert.NotEmpty(t, data["expires_at"])
			user := data["user"].(map[string]interface{})
			assert.Equal(t, tt.body["username"], user["username"])
			assert.Equal(t, tt.body["role"], user["role"])
			assert.NotContains(t, user, "password_hash")
			assert.Contains(t, w.Header().Get("Set-Cookie"), "curtainry_session=")
		})
	}
}

func TestLogin_TokenAuthenticatesLaterRequests(t *testing.T) {
	env := setupTestEnv(t)
	cfg := testConfig()
	services.SetAuthService(services.NewAuthService(env.db, cfg))

	router := setupTestRouter()
	router.POST("/api/v1/auth/login", Login)
	router.GET("/api/v1/users/me", middleware.EnsureValidToken(cfg), GetMyProfile)
	router.GET("/api/v1/orders", middleware.EnsureValidToken(cfg), ListOrders)

	w := performJSON(router, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"username": "kumar_fitter", "password": testPassword, "role": "fitter",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decodeBody(t, w)["data"].(map[string]interface{})["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Kumar Singh", profile["name"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ORD-205"}, orderIDs(t, decodeBody(t, w)))
}

func TestLogout(t *testing.T) {
	setupTestEnv(t)
	services.SetSessionMirror(services.NewSessionMirror(testSessionKey, false))

	router := setupTestRouter()
	router.POST("/api/v1/auth/logout", Logout)

	w := performJSON(router, http.MethodPost, "/api/v1/auth/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.Contains(cookie, "Max-Age=0") || strings.Contains(cookie, "Expires="), cookie)
}
