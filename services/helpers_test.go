package services

import (
	"testing"

	"github.com/kendall-kelly/curtainry-specialist-api/lifecycle"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	consultantID uint = 1
	fitterID     uint = 2
)

// setupTestDB opens a private in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Room{},
		&models.Window{},
		&models.OrderEvent{},
		&models.SitePhoto{},
	))
	return db
}

func sampleOrder(id, status string, assignedTo uint) models.Order {
	return models.Order{
		ID:            id,
		CustomerID:    "CUST-" + id[4:],
		CustomerName:  "Customer " + id,
		CustomerPhone: "+91 90000 00000",
		Address:       "Somewhere",
		Status:        status,
		ServiceType:   "installation",
		OrderType:     models.OrderTypeCustomer,
		Priority:      models.PriorityMedium,
		Amount:        1000,
		ScheduledDate: "2025-10-10",
		AssignedTo:    assignedTo,
		Visited:       status == models.StatusInProgress,
		Version:       1,
		Catalog:       models.CatalogDetails{Title: "Sheer", PricePerMeter: 100},
	}
}

// sampleOrders covers every lifecycle status for the consultant plus one order owned by the fitter
func sampleOrders() []models.Order {
	return []models.Order{
		sampleOrder("ORD-101", models.StatusPending, consultantID),
		sampleOrder("ORD-102", models.StatusAccepted, consultantID),
		sampleOrder("ORD-103", models.StatusInProgress, consultantID),
		sampleOrder("ORD-104", models.StatusCompleted, consultantID),
		sampleOrder("ORD-105", models.StatusPending, fitterID),
	}
}

func assertRejected(t *testing.T, err error, reason lifecycle.Reason) {
	t.Helper()
	var rejection *lifecycle.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, reason, rejection.Reason)
}

func intPtr(v int) *int {
	return &v
}
