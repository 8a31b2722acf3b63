package models

import "time"

// OrderEvent records one applied lifecycle transition
type OrderEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    string    `gorm:"size:32;not null;index" json:"order_id"`
	Action     string    `gorm:"not null" json:"action"`
	FromStatus string    `gorm:"not null" json:"from_status"`
	ToStatus   string    `gorm:"not null" json:"to_status"`
	ActorID    uint      `gorm:"not null;index" json:"actor_id"` // specialist who applied the action
	Version    int       `gorm:"not null" json:"version"`        // order version after the transition
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderEvent model
func (OrderEvent) TableName() string {
	return "order_events"
}
