package domain

import "time"

// RequestStatus represents the current status of a ride request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// RideRequest is a passenger's ask to be carried from pickup to dropoff.
// At most one accepted offer may exist per request; once accepted the
// request is bound to a single trip.
type RideRequest struct {
	ID            string
	PassengerID   string
	PickupNodeID  string
	DropoffNodeID string
	Status        RequestStatus
	CreatedAt     time.Time
}
