package models

// OrderView is the role-projected representation of an order sent to clients.
// Customer contact fields are only populated for consultants.
type OrderView struct {
	ID            string         `json:"id"`
	CustomerID    string         `json:"customer_id,omitempty"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone,omitempty"`
	Address       string         `json:"address"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	ServiceType   string         `json:"service_type"`
	OrderType     string         `json:"order_type"`
	Priority      string         `json:"priority"`
	Amount        float64        `json:"amount"`
	OrderDate     string         `json:"order_date"`
	ScheduledDate string         `json:"scheduled_date"`
	ScheduledTime string         `json:"scheduled_time"`
	AssignedTo    uint           `json:"assigned_to"`
	Catalog       CatalogDetails `json:"catalog_details"`
	Visited       bool           `json:"visited"`
	Version       int            `json:"version"`
	Rooms         []Room         `json:"rooms"`
}

// ViewFor projects the order for the given role. Fitters only receive the
// customer's name and address; consultants receive full contact details.
func (o Order) ViewFor(role string) OrderView {
	rooms := o.Rooms
	if rooms == nil {
		rooms = []Room{}
	}

	view := OrderView{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		Address:       o.Address,
		Description:   o.Description,
		Status:        o.Status,
		ServiceType:   o.ServiceType,
		OrderType:     o.OrderType,
		Priority:      o.Priority,
		Amount:        o.Amount,
		OrderDate:     o.OrderDate,
		ScheduledDate: o.ScheduledDate,
		ScheduledTime: o.ScheduledTime,
		AssignedTo:    o.AssignedTo,
		Catalog:       o.Catalog,
		Visited:       o.Visited,
		Version:       o.Version,
		Rooms:         rooms,
	}

	if role == RoleConsultant {
		view.CustomerID = o.CustomerID
		view.CustomerPhone = o.CustomerPhone
	}

	return view
}

// ViewsFor projects a list of orders, preserving order
func ViewsFor(orders []Order, role string) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, o.ViewFor(role))
	}
	return views
}
