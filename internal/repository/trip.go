package repository

import (
	"context"

	"carpool/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByDriverID retrieves all trips owned by a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// Update rewrites a trip's route, position, passed set and status.
	Update(ctx context.Context, trip *domain.Trip) error
}
