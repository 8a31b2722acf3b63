package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/controllers"
	"github.com/kendall-kelly/curtainry-specialist-api/middleware"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
)

// createRouter mounts the authenticated API the same way the server does
func createRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		protected := v1.Group("")
		protected.Use(middleware.EnsureValidToken(cfg))
		{
			protected.GET("/users/me", controllers.GetMyProfile)
			protected.PUT("/users/me/password", controllers.ChangeMyPassword)
			protected.GET("/session", controllers.GetSession)
			protected.GET("/orders", controllers.ListOrders)
			protected.GET("/orders/:id", controllers.GetOrder)
			protected.POST("/orders/:id/transition", controllers.TransitionOrder)
			protected.GET("/orders/:id/history", controllers.GetOrderHistory)
			protected.POST("/orders/:id/rooms", middleware.RequireRole(models.RoleConsultant), controllers.AppendRoom)
			protected.GET("/orders/:id/photos", controllers.ListSitePhotos)
			protected.POST("/orders/:id/photos", controllers.UploadSitePhoto)
		}
	}

	return router
}

// apiResponse is the common response envelope
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func (r apiResponse) errorCode() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}

// sendJSON performs an authenticated JSON request and decodes the envelope
func sendJSON(router *gin.Engine, token, method, path string, body interface{}) (int, apiResponse) {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w.Code, response
}

func (r apiResponse) decode(v interface{}) error {
	return json.Unmarshal(r.Data, v)
}

// sendRequest performs an authenticated request with a prepared body
func sendRequest(router *gin.Engine, token string, req *http.Request) (int, apiResponse) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w.Code, response
}
