package repository

import (
	"context"

	"carpool/internal/domain"
)

// RequestRepository defines the persistence operations for ride requests.
type RequestRepository interface {
	// Create persists a new ride request.
	Create(ctx context.Context, req *domain.RideRequest) error

	// GetByID retrieves a ride request by ID.
	GetByID(ctx context.Context, id string) (*domain.RideRequest, error)

	// GetPending retrieves all PENDING requests in creation order.
	GetPending(ctx context.Context) ([]*domain.RideRequest, error)

	// GetByPassengerID retrieves all requests made by a passenger.
	GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.RideRequest, error)

	// UpdateStatus updates the status of a ride request.
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
}
