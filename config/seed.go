package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SpecialistFixture is a specialist account defined in the seed file
type SpecialistFixture struct {
	Username        string  `mapstructure:"username"`
	Password        string  `mapstructure:"password"`
	Name            string  `mapstructure:"name"`
	Email           string  `mapstructure:"email"`
	Phone           string  `mapstructure:"phone"`
	Role            string  `mapstructure:"role"`
	Location        string  `mapstructure:"location"`
	Specialization  string  `mapstructure:"specialization"`
	ExperienceYears int     `mapstructure:"experience_years"`
	Rating          float64 `mapstructure:"rating"`
	JoinedAt        string  `mapstructure:"joined_at"`
}

// CatalogFixture mirrors models.CatalogDetails in the seed file
type CatalogFixture struct {
	Title         string  `mapstructure:"title"`
	SerialNumber  string  `mapstructure:"serial_number"`
	Composition   string  `mapstructure:"composition"`
	Color         string  `mapstructure:"color"`
	Pattern       string  `mapstructure:"pattern"`
	PricePerMeter float64 `mapstructure:"price_per_meter"`
	Manufacturer  string  `mapstructure:"manufacturer"`
	Retailer      string  `mapstructure:"retailer"`
}

// OrderFixture is an order defined in the seed file. AssignedTo names the specialist by username.
type OrderFixture struct {
	ID            string         `mapstructure:"id"`
	CustomerID    string         `mapstructure:"customer_id"`
	CustomerName  string         `mapstructure:"customer_name"`
	CustomerPhone string         `mapstructure:"customer_phone"`
	Address       string         `mapstructure:"address"`
	Description   string         `mapstructure:"description"`
	Status        string         `mapstructure:"status"`
	ServiceType   string         `mapstructure:"service_type"`
	OrderType     string         `mapstructure:"order_type"`
	Priority      string         `mapstructure:"priority"`
	Amount        float64        `mapstructure:"amount"`
	OrderDate     string         `mapstructure:"order_date"`
	ScheduledDate string         `mapstructure:"scheduled_date"`
	ScheduledTime string         `mapstructure:"scheduled_time"`
	AssignedTo    string         `mapstructure:"assigned_to"`
	Visited       bool           `mapstructure:"visited"`
	Catalog       CatalogFixture `mapstructure:"catalog"`
}

// SeedData is the content of the seed file
type SeedData struct {
	Specialists []SpecialistFixture `mapstructure:"specialists"`
	Orders      []OrderFixture      `mapstructure:"orders"`
}

// LoadSeedFile reads fixtures from a TOML file
func LoadSeedFile(path string) (*SeedData, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var data SeedData
	if err := v.Unmarshal(&data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// SeedDatabase inserts fixture specialists and orders that do not exist yet.
// Existing rows are left untouched so restarts never reset order state.
func SeedDatabase(db *gorm.DB, data *SeedData) error {
	usernames := make(map[string]uint, len(data.Specialists))

	for _, s := range data.Specialists {
		if !models.IsSpecialistRole(s.Role) {
			return fmt.Errorf("specialist %s has invalid role %q", s.Username, s.Role)
		}

		var user models.User
		err := db.Where("username = ?", s.Username).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", s.Username, err)
			}
			user = models.User{
				Username:        s.Username,
				PasswordHash:    string(hash),
				Name:            s.Name,
				Email:           s.Email,
				Phone:           s.Phone,
				Role:            s.Role,
				Location:        s.Location,
				Specialization:  s.Specialization,
				ExperienceYears: s.ExperienceYears,
				Rating:          s.Rating,
			}
			if s.JoinedAt != "" {
				if joined, err := time.Parse(models.DateLayout, s.JoinedAt); err == nil {
					user.JoinedAt = &joined
				}
			}
			if err := db.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to seed specialist %s: %w", s.Username, err)
			}
			slog.Info("Seeded specialist", "username", s.Username, "role", s.Role)
		} else if err != nil {
			return err
		}
		usernames[s.Username] = user.ID
	}

	for _, f := range data.Orders {
		assignedTo, ok := usernames[f.AssignedTo]
		if !ok {
			return fmt.Errorf("order %s is assigned to unknown specialist %q", f.ID, f.AssignedTo)
		}
		order, err := f.ToOrder(assignedTo)
		if err != nil {
			return err
		}

		result := db.Where("id = ?", order.ID).FirstOrCreate(&order)
		if result.Error != nil {
			return fmt.Errorf("failed to seed order %s: %w", f.ID, result.Error)
		}
		if result.RowsAffected > 0 {
			slog.Info("Seeded order", "id", order.ID, "assigned_to", f.AssignedTo)
		}
	}

	return nil
}

// ToOrder converts the fixture into a version 1 order assigned to assignedTo.
// In-progress orders are always marked visited.
func (f OrderFixture) ToOrder(assignedTo uint) (models.Order, error) {
	if f.ID == "" {
		return models.Order{}, fmt.Errorf("order fixture is missing an id")
	}
	status := f.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.IsValidStatus(status) {
		return models.Order{}, fmt.Errorf("order %s has invalid status %q", f.ID, f.Status)
	}

	return models.Order{
		ID:            f.ID,
		CustomerID:    f.CustomerID,
		CustomerName:  f.CustomerName,
		CustomerPhone: f.CustomerPhone,
		Address:       f.Address,
		Description:   f.Description,
		Status:        status,
		ServiceType:   f.ServiceType,
		OrderType:     orDefault(f.OrderType, models.OrderTypeCustomer),
		Priority:      orDefault(f.Priority, models.PriorityMedium),
		Amount:        f.Amount,
		OrderDate:     f.OrderDate,
		ScheduledDate: f.ScheduledDate,
		ScheduledTime: f.ScheduledTime,
		AssignedTo:    assignedTo,
		Visited:       f.Visited || status == models.StatusInProgress,
		Version:       1,
		Catalog: models.CatalogDetails{
			Title:         f.Catalog.Title,
			SerialNumber:  f.Catalog.SerialNumber,
			Composition:   f.Catalog.Composition,
			Color:         f.Catalog.Color,
			Pattern:       f.Catalog.Pattern,
			PricePerMeter: f.Catalog.PricePerMeter,
			Manufacturer:  f.Catalog.Manufacturer,
			Retailer:      f.Catalog.Retailer,
		},
	}, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
