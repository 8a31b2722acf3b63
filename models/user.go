package models

import (
	"time"

	"gorm.io/gorm"
)

// Specialist roles
const (
	RoleConsultant = "consultant"
	RoleFitter     = "fitter"
)

// User represents a specialist (consultant or fitter) who can log in to the dashboard
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone           string         `json:"phone"`
	Role            string         `gorm:"not null;index" json:"role"` // "consultant" or "fitter"
	Location        string         `json:"location"`
	Specialization  string         `json:"specialization"`
	ExperienceYears int            `json:"experience_years"`
	Rating          float64        `json:"rating"`
	JoinedAt        *time.Time     `json:"joined_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsSpecialistRole reports whether role is one of the two dashboard roles
func IsSpecialistRole(role string) bool {
	return role == RoleConsultant || role == RoleFitter
}
