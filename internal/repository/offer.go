package repository

import (
	"context"

	"carpool/internal/domain"
)

// OfferRepository defines the persistence operations for offers.
type OfferRepository interface {
	// Create persists a new offer.
	Create(ctx context.Context, offer *domain.Offer) error

	// GetByID retrieves an offer by ID.
	GetByID(ctx context.Context, id string) (*domain.Offer, error)

	// GetByRequestID retrieves all offers made against a request.
	GetByRequestID(ctx context.Context, requestID string) ([]*domain.Offer, error)

	// GetByTripID retrieves the trip's offers with the given status, in
	// creation order.
	GetByTripID(ctx context.Context, tripID string, status domain.OfferStatus) ([]*domain.Offer, error)

	// UpdateStatus updates the status of an offer.
	UpdateStatus(ctx context.Context, id string, status domain.OfferStatus) error
}
