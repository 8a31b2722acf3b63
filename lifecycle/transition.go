// Package lifecycle holds the order status state machine and the read-side
// filters applied to order lists.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/kendall-kelly/curtainry-specialist-api/models"
)

// Action is a specialist request against an order's lifecycle
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionVisit    Action = "visit"
	ActionComplete Action = "complete"
)

// Reason classifies a rejected request
type Reason string

const (
	InvalidState Reason = "INVALID_STATE"
	InvalidRole  Reason = "INVALID_ROLE"
	NotFound     Reason = "NOT_FOUND"
)

// Rejection is returned when a request cannot be applied. A nil error from
// Decide means the request was applied.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Reject builds a Rejection with a formatted message
func Reject(reason Reason, format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// State is the lifecycle-relevant part of an order
type State struct {
	Status  string
	Visited bool
}

// StateOf extracts the lifecycle state of an order
func StateOf(o models.Order) State {
	return State{Status: o.Status, Visited: o.Visited}
}

// ParseAction validates a raw action name
func ParseAction(raw string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionAccept, ActionReject, ActionVisit, ActionComplete:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", raw)
}

// Decide applies action to state on behalf of role and returns the resulting state.
// The returned error is always a *Rejection.
func Decide(state State, action Action, role string) (State, error) {
	if !models.IsSpecialistRole(role) {
		return state, Reject(InvalidRole, "role %q may not change order status", role)
	}

	switch action {
	case ActionAccept:
		if state.Status != models.StatusPending {
			return state, Reject(InvalidState, "cannot accept an order that is %s", state.Status)
		}
		return State{Status: models.StatusAccepted, Visited: state.Visited}, nil

	case ActionReject:
		if state.Status != models.StatusPending {
			return state, Reject(InvalidState, "cannot reject an order that is %s", state.Status)
		}
		return State{Status: models.StatusCancelled, Visited: state.Visited}, nil

	case ActionVisit:
		if state.Status != models.StatusAccepted {
			return state, Reject(InvalidState, "cannot start a site visit on an order that is %s", state.Status)
		}
		if state.Visited {
			return state, Reject(InvalidState, "site visit already started")
		}
		return State{Status: models.StatusInProgress, Visited: true}, nil

	case ActionComplete:
		if state.Status == models.StatusInProgress || (state.Status == models.StatusAccepted && state.Visited) {
			return State{Status: models.StatusCompleted, Visited: state.Visited}, nil
		}
		if state.Status == models.StatusAccepted {
			return state, Reject(InvalidState, "order must be visited before it can be completed")
		}
		return state, Reject(InvalidState, "cannot complete an order that is %s", state.Status)
	}

	return state, Reject(InvalidState, "unsupported action %q", action)
}

// IsVisited reports whether a site visit has started for the order state.
// An in-progress order has always been visited.
func IsVisited(state State) bool {
	return state.Status == models.StatusInProgress || (state.Status == models.StatusAccepted && state.Visited)
}

// CanAppendRoom checks whether role may add a room measurement to an order in state.
// Only consultants measure, and only once the site visit has started.
func CanAppendRoom(state State, role string) error {
	if role != models.RoleConsultant {
		return Reject(InvalidRole, "only consultants can record measurements")
	}
	if !IsVisited(state) {
		return Reject(InvalidState, "measurements can only be recorded during a site visit (order is %s)", state.Status)
	}
	return nil
}

// CanUploadPhoto checks whether role may attach a site photo to an order in state
func CanUploadPhoto(state State, role string) error {
	if !models.IsSpecialistRole(role) {
		return Reject(InvalidRole, "role %q may not upload site photos", role)
	}
	if !IsVisited(state) {
		return Reject(InvalidState, "photos can only be uploaded during a site visit (order is %s)", state.Status)
	}
	return nil
}
