package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// OfferRepository is a PostgreSQL implementation of repository.OfferRepository.
// Fares persist as numeric(12,2).
type OfferRepository struct {
	q Querier
}

// NewOfferRepository creates a new PostgreSQL offer repository.
func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{q: db}
}

// NewOfferRepositoryWithTx creates an offer repository using a transaction.
func NewOfferRepositoryWithTx(tx *sql.Tx) *OfferRepository {
	return &OfferRepository{q: tx}
}

// Create persists a new offer.
func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	query := `
		INSERT INTO offers (id, trip_id, request_id, fare, detour, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		offer.ID,
		offer.TripID,
		offer.RequestID,
		offer.Fare,
		offer.Detour,
		offer.Status,
		offer.CreatedAt,
	)

	return err
}

// GetByID retrieves an offer by ID.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := `SELECT id, trip_id, request_id, fare, detour, status, created_at FROM offers WHERE id = $1`

	var offer domain.Offer
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&offer.ID,
		&offer.TripID,
		&offer.RequestID,
		&offer.Fare,
		&offer.Detour,
		&offer.Status,
		&offer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &offer, nil
}

// GetByRequestID retrieves all offers made against a request.
func (r *OfferRepository) GetByRequestID(ctx context.Context, requestID string) ([]*domain.Offer, error) {
	query := `
		SELECT id, trip_id, request_id, fare, detour, status, created_at
		FROM offers WHERE request_id = $1 ORDER BY created_at
	`

	return r.queryOffers(ctx, query, requestID)
}

// GetByTripID retrieves the trip's offers with the given status, in
// creation order.
func (r *OfferRepository) GetByTripID(ctx context.Context, tripID string, status domain.OfferStatus) ([]*domain.Offer, error) {
	query := `
		SELECT id, trip_id, request_id, fare, detour, status, created_at
		FROM offers WHERE trip_id = $1 AND status = $2 ORDER BY created_at
	`

	return r.queryOffers(ctx, query, tripID, status)
}

// UpdateStatus updates the status of an offer.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id string, status domain.OfferStatus) error {
	query := `UPDATE offers SET status = $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *OfferRepository) queryOffers(ctx context.Context, query string, args ...any) ([]*domain.Offer, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*domain.Offer
	for rows.Next() {
		var offer domain.Offer
		err := rows.Scan(
			&offer.ID,
			&offer.TripID,
			&offer.RequestID,
			&offer.Fare,
			&offer.Detour,
			&offer.Status,
		)
		if err != nil {
			return nil, err
		}
		offers = append(offers, &offer)
	}

	return offers, rows.Err()
}
