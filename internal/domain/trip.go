package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusScheduled TripStatus = "SCHEDULED"
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// Terminal reports whether the status freezes all route state.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip is a driver's journey along a route. The trip exclusively owns its
// route and passed-nodes set; both mutate only through position
// advancement and accepted-offer route insertion.
type Trip struct {
	ID            string
	DriverID      string
	StartNodeID   string
	EndNodeID     string
	Route         Route
	CurrentNodeID string   // must appear in Route when set
	PassedNodeIDs []string // monotonically growing subset of Route
	MaxPassengers int
	Status        TripStatus
	CreatedAt     time.Time
}

// RemainingRoute returns the suffix of the route from the current
// position onward. When the current position is unset or has fallen off
// the route, the whole route is returned and ok is false so callers can
// flag the inconsistency.
func (t *Trip) RemainingRoute() (Route, bool) {
	if t.CurrentNodeID == "" {
		return t.Route, false
	}
	suffix, found := t.Route.SuffixFrom(t.CurrentNodeID)
	if !found {
		return t.Route, false
	}
	return suffix, true
}

// HasPassed reports whether the trip already traversed nodeID.
func (t *Trip) HasPassed(nodeID string) bool {
	for _, id := range t.PassedNodeIDs {
		if id == nodeID {
			return true
		}
	}
	return false
}
