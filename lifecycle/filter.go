package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/curtainry-specialist-api/models"
)

// StatusAll, OrderTypeAll and PriorityAll disable their respective filters
const (
	StatusAll    = "all"
	OrderTypeAll = "all"
	PriorityAll  = "all"
)

// Filter selects a subset of orders. Zero-valued fields are inactive.
type Filter struct {
	// Status matches exactly, except "accepted" which matches every non-cancelled order
	Status string
	// OrderType is "admin" or "customer" (anything not admin)
	OrderType string
	// Date matches the scheduled calendar day
	Date time.Time
	// Priority matches exactly
	Priority string
}

// ParseFilter builds a Filter from raw query values
func ParseFilter(status, orderType, date, priority string) (Filter, error) {
	var f Filter

	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != StatusAll {
		if !models.IsValidStatus(status) {
			return f, fmt.Errorf("invalid status filter %q", status)
		}
		f.Status = status
	}

	orderType = strings.ToLower(strings.TrimSpace(orderType))
	switch orderType {
	case "", OrderTypeAll:
	case models.OrderTypeAdmin, models.OrderTypeCustomer:
		f.OrderType = orderType
	default:
		return f, fmt.Errorf("invalid order type filter %q", orderType)
	}

	if date = strings.TrimSpace(date); date != "" {
		d, err := time.Parse(models.DateLayout, date)
		if err != nil {
			return f, fmt.Errorf("invalid date filter %q, expected YYYY-MM-DD", date)
		}
		f.Date = d
	}

	priority = strings.ToLower(strings.TrimSpace(priority))
	switch priority {
	case "", PriorityAll:
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		f.Priority = priority
	default:
		return f, fmt.Errorf("invalid priority filter %q", priority)
	}

	return f, nil
}

// Apply returns the orders matching every active filter in their original order.
// The input slice is not modified.
func (f Filter) Apply(orders []models.Order) []models.Order {
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Matches(o) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// Matches reports whether a single order passes the filter
func (f Filter) Matches(o models.Order) bool {
	return f.matchesStatus(o.Status) &&
		f.matchesOrderType(o.OrderType) &&
		f.matchesDate(o.ScheduledDate) &&
		(f.Priority == "" || o.Priority == f.Priority)
}

func (f Filter) matchesStatus(status string) bool {
	switch f.Status {
	case "":
		return true
	case models.StatusAccepted:
		return status != models.StatusCancelled && models.IsValidStatus(status)
	default:
		return status == f.Status
	}
}

func (f Filter) matchesOrderType(orderType string) bool {
	switch f.OrderType {
	case models.OrderTypeAdmin:
		return orderType == models.OrderTypeAdmin
	case models.OrderTypeCustomer:
		return orderType != models.OrderTypeAdmin
	default:
		return true
	}
}

func (f Filter) matchesDate(scheduled string) bool {
	if f.Date.IsZero() {
		return true
	}
	d, err := time.Parse(models.DateLayout, scheduled)
	if err != nil {
		return false
	}
	return SameDay(d, f.Date)
}

// SameDay reports calendar-day equality
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
