package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/middleware"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware simulates the JWT middleware for testing.
// It sets up the context exactly as the real EnsureValidToken middleware does.
func mockAuthMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("validated_claims", &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{Subject: userID},
			CustomClaims:     &middleware.CustomClaims{Role: role},
		})
		c.Next()
	}
}

// testEnv is a database seeded with one consultant, one fitter and their orders
type testEnv struct {
	db         *gorm.DB
	consultant models.User
	fitter     models.User
}

func setupTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	config.SetDB(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		db: db,
		consultant: models.User{
			Username:     "raj_consultant",
			PasswordHash: string(hash),
			Name:         "Raj Kumar",
			Email:        "raj@example.com",
			Role:         models.RoleConsultant,
		},
		fitter: models.User{
			Username:     "kumar_fitter",
			PasswordHash: string(hash),
			Name:         "Kumar Singh",
			Email:        "kumar@example.com",
			Role:         models.RoleFitter,
		},
	}
	require.NoError(t, db.Create(&env.consultant).Error)
	require.NoError(t, db.Create(&env.fitter).Error)

	orders := []models.Order{
		testOrder("ORD-201", models.StatusPending, env.consultant.ID, "2025-10-10"),
		testOrder("ORD-202", models.StatusAccepted, env.consultant.ID, "2025-10-08"),
		testOrder("ORD-203", models.StatusInProgress, env.consultant.ID, "2025-10-09"),
		testOrder("ORD-204", models.StatusCompleted, env.consultant.ID, "2025-10-02"),
		testOrder("ORD-205", models.StatusPending, env.fitter.ID, "2025-10-11"),
	}
	orders[1].OrderType = models.OrderTypeAdmin
	orders[2].Visited = true
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}

	services.SetOrderRepository(services.NewGormOrderRepository(db))
	services.SetSessionMirror(nil)
	services.SetPhotoService(nil)
	t.Cleanup(func() {
		services.SetOrderRepository(nil)
		services.SetSessionMirror(nil)
		services.SetPhotoService(nil)
	})

	return env
}

func testOrder(id, status string, assignedTo uint, scheduled string) models.Order {
	return models.Order{
		ID:            id,
		CustomerID:    "CUST-" + id,
		CustomerName:  "Customer " + id,
		CustomerPhone: "+91 98765 43210",
		Address:       "12 MG Road, Bengaluru",
		Status:        status,
		ServiceType:   "consultation",
		OrderType:     models.OrderTypeCustomer,
		Priority:      models.PriorityMedium,
		Amount:        1000,
		OrderDate:     "2025-10-01",
		ScheduledDate: scheduled,
		ScheduledTime: "10:00 AM",
		AssignedTo:    assignedTo,
		Catalog:       models.CatalogDetails{Title: "Linen Sheer", PricePerMeter: 100},
		Version:       1,
	}
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	response := decodeBody(t, w)
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected an error body, got %s", w.Body.String())
	return errObj["code"].(string)
}
