package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/controllers"
	"github.com/kendall-kelly/curtainry-specialist-api/middleware"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"github.com/kendall-kelly/curtainry-specialist-api/tests/testutil"
	"github.com/stretchr/testify/suite"
)

// DashboardAcceptanceTestSuite drives a real HTTP server seeded from the bundled fixtures,
// the way the dashboard does: bearer token plus a cookie jar for the session mirror
type DashboardAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	cfg    *config.Config
	client *http.Client
	token  string
}

// SetupSuite runs once before all tests
func (suite *DashboardAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.cfg = testutil.TestConfig()
	suite.server = httptest.NewServer(suite.createRouter())
}

// TearDownSuite runs once after all tests
func (suite *DashboardAcceptanceTestSuite) TearDownSuite() {
	suite.server.Close()
}

// SetupTest seeds a fresh database and starts a new browser session
func (suite *DashboardAcceptanceTestSuite) SetupTest() {
	db := testutil.NewTestDB(suite.T())
	seed, err := config.LoadSeedFile("../../config/seed.toml")
	suite.Require().NoError(err)
	suite.Require().NoError(config.SeedDatabase(db, seed))

	services.SetOrderRepository(services.NewGormOrderRepository(db))
	services.SetAuthService(services.NewAuthService(db, suite.cfg))
	services.SetSessionMirror(services.NewSessionMirror([]byte(testutil.TestSessionKey), false))

	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	suite.client = &http.Client{Jar: jar}
	suite.token = ""
}

// TearDownTest runs after each test
func (suite *DashboardAcceptanceTestSuite) TearDownTest() {
	services.SetOrderRepository(nil)
	services.SetAuthService(nil)
	services.SetSessionMirror(nil)
}

// createRouter creates the test router with the dashboard routes
func (suite *DashboardAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		protected := v1.Group("")
		protected.Use(middleware.EnsureValidToken(suite.cfg))
		{
			protected.GET("/dashboard", controllers.GetDashboard)
			protected.GET("/schedule", controllers.GetSchedule)
			protected.GET("/revenue", controllers.GetRevenue)
			protected.GET("/session", controllers.GetSession)
			protected.PUT("/session/route", controllers.UpdateSessionRoute)
			protected.GET("/orders", controllers.ListOrders)
		}
	}

	return router
}

// call sends a request to the live server and decodes the envelope's data
func (suite *DashboardAcceptanceTestSuite) call(method, path string, body interface{}) (int, map[string]interface{}) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		suite.Require().NoError(err)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, bytes.NewReader(payload))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if suite.token != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}

	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	return resp.StatusCode, response
}

func (suite *DashboardAcceptanceTestSuite) login(username, role string) {
	status, response := suite.call("POST", "/api/v1/auth/login", map[string]interface{}{
		"username": username,
		"password": "password123",
		"role":     role,
	})
	suite.Require().Equal(http.StatusOK, status, response)
	suite.token = response["data"].(map[string]interface{})["token"].(string)
}

func (suite *DashboardAcceptanceTestSuite) currentRoute() interface{} {
	status, response := suite.call("GET", "/api/v1/session", nil)
	suite.Require().Equal(http.StatusOK, status)
	if response["data"] == nil {
		return nil
	}
	return response["data"].(map[string]interface{})["current_route"]
}

// TestSessionFollowsNavigation checks the mirrored route tracks the last view
func (suite *DashboardAcceptanceTestSuite) TestSessionFollowsNavigation() {
	suite.login("raj_consultant", "consultant")
	suite.Equal("/dashboard", suite.currentRoute())

	status, response := suite.call("GET", "/api/v1/schedule?week=2025-10-08", nil)
	suite.Require().Equal(http.StatusOK, status)
	schedule := response["data"].(map[string]interface{})
	suite.Equal("2025-10-05", schedule["week_start"])
	suite.Equal(float64(4), schedule["total_booked"])
	suite.Equal("/schedule", suite.currentRoute())

	status, _ = suite.call("PUT", "/api/v1/session/route", map[string]interface{}{"route": "/orders/ORD-003"})
	suite.Require().Equal(http.StatusOK, status)
	suite.Equal("/orders/ORD-003", suite.currentRoute())

	status, _ = suite.call("POST", "/api/v1/auth/logout", nil)
	suite.Require().Equal(http.StatusOK, status)
	suite.Nil(suite.currentRoute())
}

// TestSessionIsPerSpecialist checks a session cookie is ignored for another specialist
func (suite *DashboardAcceptanceTestSuite) TestSessionIsPerSpecialist() {
	suite.login("raj_consultant", "consultant")
	suite.Equal("/dashboard", suite.currentRoute())

	// Log the fitter in outside the jar so the consultant's cookie stays in place
	browser := suite.client
	suite.client = &http.Client{}
	suite.login("kumar_fitter", "fitter")
	suite.client = browser

	suite.Nil(suite.currentRoute())
}

// TestDashboardSummaries checks the seeded figures for a consultant
func (suite *DashboardAcceptanceTestSuite) TestDashboardSummaries() {
	suite.login("raj_consultant", "consultant")

	status, response := suite.call("GET", "/api/v1/dashboard", nil)
	suite.Require().Equal(http.StatusOK, status)
	stats := response["data"].(map[string]interface{})["stats"].(map[string]interface{})
	suite.Equal("consultations", stats["role_label"])
	suite.Equal(float64(4), stats["total_orders"])
	suite.Equal(float64(2), stats["pending_actions"])
	suite.Equal(float64(1), stats["active_jobs"])
	suite.Equal(float64(1), stats["completed_jobs"])
	suite.Equal(float64(500), stats["total_earnings"])

	status, response = suite.call("GET", "/api/v1/revenue?period=this_year", nil)
	suite.Require().Equal(http.StatusOK, status)
	suite.Equal("this_year", response["data"].(map[string]interface{})["period"])

	status, response = suite.call("GET", "/api/v1/revenue?period=decade", nil)
	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])
}

// TestDashboardAcceptanceTestSuite runs the dashboard acceptance test suite
func TestDashboardAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardAcceptanceTestSuite))
}
