package controllers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter(userID uint, role string) *gin.Engine {
	router := setupTestRouter()
	auth := mockAuthMiddleware(strconv.FormatUint(uint64(userID), 10), role)
	router.GET("/api/v1/session", auth, GetSession)
	router.PUT("/api/v1/session/route", auth, UpdateSessionRoute)
	return router
}

func TestSessionRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	services.SetSessionMirror(services.NewSessionMirror(testSessionKey, false))
	router := sessionRouter(env.consultant.ID, models.RoleConsultant)

	w := performJSON(router, http.MethodPut, "/api/v1/session/route", map[string]interface{}{"route": "/orders/ORD-201"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "consultant", data["user_type"])
	assert.Equal(t, "/orders/ORD-201", data["current_route"])
	assert.Equal(t, float64(env.consultant.ID), data["user_id"])
}

func TestGetSession_NoSession(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("No cookie", func(t *testing.T) {
		services.SetSessionMirror(services.NewSessionMirror(testSessionKey, false))
		w := performJSON(sessionRouter(env.fitter.ID, models.RoleFitter), http.MethodGet, "/api/v1/session", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.True(t, response["success"].(bool))
		assert.Nil(t, response["data"])
	})

	t.Run("Tampered cookie", func(t *testing.T) {
		services.SetSessionMirror(services.NewSessionMirror(testSessionKey, false))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		req.AddCookie(&http.Cookie{Name: "curtainry_session", Value: "forged-value"})
		w := httptest.NewRecorder()
		sessionRouter(env.fitter.ID, models.RoleFitter).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, decodeBody(t, w)["data"])
	})

	t.Run("Mirror disabled", func(t *testing.T) {
		services.SetSessionMirror(nil)
		router := sessionRouter(env.fitter.ID, models.RoleFitter)

		w := performJSON(router, http.MethodGet, "/api/v1/session", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, decodeBody(t, w)["data"])

		w = performJSON(router, http.MethodPut, "/api/v1/session/route", map[string]interface{}{"route": "/schedule"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestUpdateSessionRoute_MissingRoute(t *testing.T) {
	env := setupTestEnv(t)
	services.SetSessionMirror(services.NewSessionMirror(testSessionKey, false))

	w := performJSON(sessionRouter(env.fitter.ID, models.RoleFitter), http.MethodPut, "/api/v1/session/route", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}
