package testutil

import (
	"os"
	"testing"

	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPassword is the password given to every specialist created by SeedSpecialist
const DefaultPassword = "password123"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip is similar to RequireTestEnvironment but skips the test
// instead of failing it.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// NewTestDB opens a migrated in-memory SQLite database and installs it globally.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() {
		sqlDB.Close()
		config.SetDB(nil)
	})
	return db
}

// SeedSpecialist creates a specialist with DefaultPassword
func SeedSpecialist(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()

	hash, err := services.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         username,
		Email:        username + "@curtainry.test",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create specialist %s: %v", username, err)
	}
	return user
}

// SeedOrder creates an order assigned to assignedTo with a version of 1
func SeedOrder(t *testing.T, db *gorm.DB, id, status string, assignedTo uint) models.Order {
	t.Helper()

	order := models.Order{
		ID:            id,
		CustomerID:    "CUST-" + id,
		CustomerName:  "Customer " + id,
		CustomerPhone: "+91 98765 43210",
		Address:       "Anna Nagar, Chennai",
		Status:        status,
		ServiceType:   "installation",
		OrderType:     models.OrderTypeCustomer,
		Priority:      models.PriorityMedium,
		Amount:        1500,
		OrderDate:     "2025-10-01",
		ScheduledDate: "2025-10-10",
		ScheduledTime: "11:00 AM",
		AssignedTo:    assignedTo,
		Catalog:       models.CatalogDetails{Title: "Velvet Drapes", PricePerMeter: 250},
		Visited:       status == models.StatusInProgress,
		Version:       1,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order %s: %v", id, err)
	}
	return order
}
