package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kendall-kelly/curtainry-specialist-api/lifecycle"
	"github.com/kendall-kelly/curtainry-specialist-api/measurement"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
)

// MemoryOrderRepository keeps orders in process memory. One mutex serializes
// every write, so it needs no version checks beyond ExpectedVersion.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders []*models.Order
	index  map[string]int
	events []models.OrderEvent
	photos []models.SitePhoto

	nextRoomID   uint
	nextWindowID uint
	nextEventID  uint
	nextPhotoID  uint
}

// NewMemoryOrderRepository creates a repository holding orders in the given order
func NewMemoryOrderRepository(orders ...models.Order) (*MemoryOrderRepository, error) {
	r := &MemoryOrderRepository{index: make(map[string]int)}
	for _, o := range orders {
		if err := r.Insert(o); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Insert adds a new order. Orders keep the position they were inserted at.
func (r *MemoryOrderRepository) Insert(order models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		return fmt.Errorf("order id is required")
	}
	if _, exists := r.index[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	if order.Version == 0 {
		order.Version = 1
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	order.Rooms = cloneRooms(order.Rooms)

	r.index[order.ID] = len(r.orders)
	r.orders = append(r.orders, &order)
	return nil
}

func cloneRooms(rooms []models.Room) []models.Room {
	if rooms == nil {
		return nil
	}
	out := make([]models.Room, len(rooms))
	for i, room := range rooms {
		out[i] = room
		out[i].Windows = append([]models.Window(nil), room.Windows...)
	}
	return out
}

func cloneOrder(o *models.Order) models.Order {
	c := *o
	c.Rooms = cloneRooms(o.Rooms)
	return c
}

// owned returns the stored order if it exists and belongs to actorID. Caller holds mu.
func (r *MemoryOrderRepository) owned(id string, actorID uint) (*models.Order, error) {
	i, ok := r.index[id]
	if !ok || r.orders[i].AssignedTo != actorID {
		return nil, ErrOrderNotFound
	}
	return r.orders[i], nil
}

// Get returns a copy of the order
func (r *MemoryOrderRepository) Get(_ context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order := cloneOrder(r.orders[i])
	return &order, nil
}

// List returns copies of the orders assigned to a specialist in insertion order
func (r *MemoryOrderRepository) List(_ context.Context, assignedTo uint) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := []models.Order{}
	for _, o := range r.orders {
		if o.AssignedTo == assignedTo {
			orders = append(orders, cloneOrder(o))
		}
	}
	return orders, nil
}

// ApplyTransition runs the lifecycle state machine against the stored order
func (r *MemoryOrderRepository) ApplyTransition(_ context.Context, id string, req TransitionRequest) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.owned(id, req.ActorID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != order.Version {
		return nil, ErrVersionConflict
	}

	from := order.Status
	next, err := lifecycle.Decide(lifecycle.StateOf(*order), req.Action, req.Role)
	if err != nil {
		return nil, err
	}

	order.Status = next.Status
	order.Visited = next.Visited
	order.Version++
	order.UpdatedAt = time.Now()

	r.nextEventID++
	r.events = append(r.events, models.OrderEvent{
		ID:         r.nextEventID,
		OrderID:    order.ID,
		Action:     string(req.Action),
		FromStatus: from,
		ToStatus:   next.Status,
		ActorID:    req.ActorID,
		Version:    order.Version,
		CreatedAt:  order.UpdatedAt,
	})

	updated := cloneOrder(order)
	return &updated, nil
}

// AppendRoom validates a measurement and adds it to the order's rooms
func (r *MemoryOrderRepository) AppendRoom(_ context.Context, id string, req AppendRoomRequest) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.owned(id, req.ActorID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != order.Version {
		return nil, ErrVersionConflict
	}
	if err := lifecycle.CanAppendRoom(lifecycle.StateOf(*order), req.Role); err != nil {
		return nil, err
	}

	room, err := measurement.Build(req.Measurement, order.Catalog.PricePerMeter)
	if err != nil {
		return nil, err
	}

	r.nextRoomID++
	room.ID = r.nextRoomID
	room.OrderID = order.ID
	room.MeasuredBy = req.ActorID
	room.CreatedAt = time.Now()
	for i := range room.Windows {
		r.nextWindowID++
		room.Windows[i].ID = r.nextWindowID
		room.Windows[i].RoomID = room.ID
	}

	order.Rooms = append(order.Rooms, cloneRooms([]models.Room{*room})[0])
	order.Version++
	order.UpdatedAt = room.CreatedAt

	return room, nil
}

// AddPhoto records an uploaded photo for an order under a site visit
func (r *MemoryOrderRepository) AddPhoto(_ context.Context, id string, req PhotoRequest) (*models.SitePhoto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.owned(id, req.ActorID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanUploadPhoto(lifecycle.StateOf(*order), req.Role); err != nil {
		return nil, err
	}

	r.nextPhotoID++
	photo := models.SitePhoto{
		ID:           r.nextPhotoID,
		OrderID:      order.ID,
		S3Key:        req.S3Key,
		ThumbnailKey: req.ThumbnailKey,
		ContentType:  req.ContentType,
		UploadedBy:   req.ActorID,
		CreatedAt:    time.Now(),
	}
	r.photos = append(r.photos, photo)
	return &photo, nil
}

// Photos lists the site photos of an order, oldest first
func (r *MemoryOrderRepository) Photos(_ context.Context, id string) ([]models.SitePhoto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	photos := []models.SitePhoto{}
	for _, p := range r.photos {
		if p.OrderID == id {
			photos = append(photos, p)
		}
	}
	return photos, nil
}

// History lists the applied transitions of an order, oldest first
func (r *MemoryOrderRepository) History(_ context.Context, id string) ([]models.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := []models.OrderEvent{}
	for _, e := range r.events {
		if e.OrderID == id {
			events = append(events, e)
		}
	}
	return events, nil
}
