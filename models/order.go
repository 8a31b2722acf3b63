package models

import (
	"time"
)

// Order statuses
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Order provenance
const (
	OrderTypeCustomer = "customer"
	OrderTypeAdmin    = "admin"
)

// Order priorities, display only
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DateLayout is the calendar-day format used for scheduled dates
const DateLayout = "2006-01-02"

// CatalogDetails describes the curtain product attached to an order. Read-only reference data.
type CatalogDetails struct {
	Title         string  `json:"title"`
	SerialNumber  string  `json:"serial_number"`
	Composition   string  `json:"composition"`
	Color         string  `json:"color"`
	Pattern       string  `json:"pattern"`
	PricePerMeter float64 `json:"price_per_meter"`
	Manufacturer  string  `json:"manufacturer"`
	Retailer      string  `json:"retailer"`
}

// Order represents a unit of work (consultation, installation, repair, measurement)
// assigned to one specialist
type Order struct {
	ID            string         `gorm:"primaryKey;size:32" json:"id"`
	CustomerID    string         `gorm:"not null;index" json:"customer_id"`
	CustomerName  string         `gorm:"not null" json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	Address       string         `gorm:"not null" json:"address"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        string         `gorm:"not null;default:'pending';index" json:"status"` // pending, accepted, in_progress, completed, cancelled
	ServiceType   string         `gorm:"not null" json:"service_type"`                   // consultation, installation, repair, measurement
	OrderType     string         `gorm:"not null;default:'customer'" json:"order_type"`  // customer or admin
	Priority      string         `gorm:"not null;default:'medium'" json:"priority"`
	Amount        float64        `gorm:"not null;default:0" json:"amount"`
	OrderDate     string         `gorm:"size:10" json:"order_date"`
	ScheduledDate string         `gorm:"size:10;index" json:"scheduled_date"`
	ScheduledTime string         `json:"scheduled_time"`
	AssignedTo    uint           `gorm:"not null;index" json:"assigned_to"`
	Catalog       CatalogDetails `gorm:"embedded;embeddedPrefix:catalog_" json:"catalog_details"`
	Visited       bool           `gorm:"not null;default:false" json:"visited"`
	Version       int            `gorm:"not null;default:1" json:"version"`
	Rooms         []Room         `gorm:"foreignKey:OrderID" json:"rooms"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order can no longer change status
func (o Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// IsValidStatus reports whether status is one of the lifecycle statuses
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
