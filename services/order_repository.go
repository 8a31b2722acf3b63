package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/curtainry-specialist-api/lifecycle"
	"github.com/kendall-kelly/curtainry-specialist-api/measurement"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound is returned for unknown orders and for orders assigned to someone else
	ErrOrderNotFound = lifecycle.Reject(lifecycle.NotFound, "order not found")

	// ErrVersionConflict is returned when the order changed since the caller read it
	ErrVersionConflict = errors.New("order was modified by another request")
)

// TransitionRequest asks for one lifecycle action on an order
type TransitionRequest struct {
	Action  lifecycle.Action
	Role    string
	ActorID uint
	// ExpectedVersion, when set, must match the stored version
	ExpectedVersion *int
}

// AppendRoomRequest adds one room measurement to an order
type AppendRoomRequest struct {
	Measurement     measurement.Input
	Role            string
	ActorID         uint
	ExpectedVersion *int
}

// PhotoRequest records an uploaded site photo against an order
type PhotoRequest struct {
	S3Key        string
	ThumbnailKey string
	ContentType  string
	Role         string
	ActorID      uint
}

// OrderRepository is the single writer for order state
type OrderRepository interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, assignedTo uint) ([]models.Order, error)
	ApplyTransition(ctx context.Context, id string, req TransitionRequest) (*models.Order, error)
	AppendRoom(ctx context.Context, id string, req AppendRoomRequest) (*models.Room, error)
	AddPhoto(ctx context.Context, id string, req PhotoRequest) (*models.SitePhoto, error)
	Photos(ctx context.Context, id string) ([]models.SitePhoto, error)
	History(ctx context.Context, id string) ([]models.OrderEvent, error)
}

var orderRepositoryInstance OrderRepository

// InitOrderRepository sets the repository used by the controllers
func InitOrderRepository(repo OrderRepository) OrderRepository {
	orderRepositoryInstance = repo
	return orderRepositoryInstance
}

// GetOrderRepository returns the initialized order repository
func GetOrderRepository() OrderRepository {
	return orderRepositoryInstance
}

// SetOrderRepository sets the order repository (primarily for testing)
func SetOrderRepository(repo OrderRepository) {
	orderRepositoryInstance = repo
}

// GormOrderRepository stores orders in the SQL database
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository backed by db
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadRooms(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("rooms.id ASC")
		}).
		Preload("Rooms.Windows", func(db *gorm.DB) *gorm.DB {
			return db.Order("room_windows.position ASC")
		})
}

// Get loads an order with its rooms
func (r *GormOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := preloadRooms(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	return &order, nil
}

// List returns the orders assigned to a specialist in insertion order
func (r *GormOrderRepository) List(ctx context.Context, assignedTo uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := preloadRooms(r.db.WithContext(ctx)).
		Where("assigned_to = ?", assignedTo).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// loadOwned reads an order inside tx and hides it from anyone but its assignee
func loadOwned(tx *gorm.DB, id string, actorID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.AssignedTo != actorID {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// bumpVersion performs the conditional write that serializes updates to one order
func bumpVersion(tx *gorm.DB, order *models.Order, fields map[string]interface{}) error {
	fields["version"] = order.Version + 1
	fields["updated_at"] = time.Now()

	result := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	order.Version++
	return nil
}

// ApplyTransition runs the lifecycle state machine against the stored order and
// persists the result together with a history event
func (r *GormOrderRepository) ApplyTransition(ctx context.Context, id string, req TransitionRequest) (*models.Order, error) {
	var updated *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOwned(tx, id, req.ActorID)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != order.Version {
			return ErrVersionConflict
		}

		from := order.Status
		next, err := lifecycle.Decide(lifecycle.StateOf(*order), req.Action, req.Role)
		if err != nil {
			return err
		}

		if err := bumpVersion(tx, order, map[string]interface{}{
			"status":  next.Status,
			"visited": next.Visited,
		}); err != nil {
			return err
		}
		order.Status = next.Status
		order.Visited = next.Visited

		event := models.OrderEvent{
			OrderID:    order.ID,
			Action:     string(req.Action),
			FromStatus: from,
			ToStatus:   next.Status,
			ActorID:    req.ActorID,
			Version:    order.Version,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AppendRoom validates a measurement and adds it to the order's rooms
func (r *GormOrderRepository) AppendRoom(ctx context.Context, id string, req AppendRoomRequest) (*models.Room, error) {
	var room *models.Room

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOwned(tx, id, req.ActorID)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != order.Version {
			return ErrVersionConflict
		}
		if err := lifecycle.CanAppendRoom(lifecycle.StateOf(*order), req.Role); err != nil {
			return err
		}

		built, err := measurement.Build(req.Measurement, order.Catalog.PricePerMeter)
		if err != nil {
			return err
		}
		built.OrderID = order.ID
		built.MeasuredBy = req.ActorID

		if err := bumpVersion(tx, order, map[string]interface{}{}); err != nil {
			return err
		}
		if err := tx.Create(built).Error; err != nil {
			return err
		}

		room = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// AddPhoto records an uploaded photo for an order under a site visit
func (r *GormOrderRepository) AddPhoto(ctx context.Context, id string, req PhotoRequest) (*models.SitePhoto, error) {
	db := r.db.WithContext(ctx)

	order, err := loadOwned(db, id, req.ActorID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanUploadPhoto(lifecycle.StateOf(*order), req.Role); err != nil {
		return nil, err
	}

	photo := models.SitePhoto{
		OrderID:      order.ID,
		S3Key:        req.S3Key,
		ThumbnailKey: req.ThumbnailKey,
		ContentType:  req.ContentType,
		UploadedBy:   req.ActorID,
	}
	if err := db.Create(&photo).Error; err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	return &photo, nil
}

// Photos lists the site photos of an order, oldest first
func (r *GormOrderRepository) Photos(ctx context.Context, id string) ([]models.SitePhoto, error) {
	photos := []models.SitePhoto{}
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Order("id ASC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// History lists the applied transitions of an order, oldest first
func (r *GormOrderRepository) History(ctx context.Context, id string) ([]models.OrderEvent, error) {
	events := []models.OrderEvent{}
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return events, nil
}
