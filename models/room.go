package models

import "time"

// Room is one measurement record for an order. Rooms are append-only: totals are
// computed when the room is captured and never recomputed.
type Room struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderID         string    `gorm:"size:32;not null;index" json:"order_id"`
	RoomType        string    `gorm:"not null" json:"room_type"`
	NumberOfWindows int       `gorm:"not null" json:"number_of_windows"`
	Windows         []Window  `gorm:"foreignKey:RoomID" json:"windows"`
	TotalArea       float64   `gorm:"not null" json:"total_area"`     // sq ft
	EstimatedCost   float64   `gorm:"not null" json:"estimated_cost"` // total_area x price_per_meter
	Notes           string    `gorm:"type:text" json:"notes"`
	MeasuredBy      uint      `gorm:"not null" json:"measured_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for the Room model
func (Room) TableName() string {
	return "rooms"
}

// Window is a single window measurement in feet
type Window struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	RoomID         uint    `gorm:"not null;index" json:"room_id"`
	Position       int     `gorm:"not null" json:"position"`
	Width          float64 `gorm:"not null" json:"width"`
	Height         float64 `gorm:"not null" json:"height"`
	Area           float64 `gorm:"not null" json:"area"`
	SameAsPrevious bool    `gorm:"not null;default:false" json:"same_as_previous"`
}

// TableName specifies the table name for the Window model
func (Window) TableName() string {
	return "room_windows"
}
