package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

// Create persists a new ride request.
func (r *RequestRepository) Create(ctx context.Context, req *domain.RideRequest) error {
	query := `
		INSERT INTO ride_requests (id, passenger_id, pickup_node_id, dropoff_node_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		req.ID,
		req.PassengerID,
		req.PickupNodeID,
		req.DropoffNodeID,
		req.Status,
		req.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	query := `
		SELECT id, passenger_id, pickup_node_id, dropoff_node_id, status, created_at
		FROM ride_requests WHERE id = $1
	`

	var req domain.RideRequest
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.PassengerID,
		&req.PickupNodeID,
		&req.DropoffNodeID,
		&req.Status,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &req, nil
}

// GetPending retrieves all PENDING requests in creation order.
func (r *RequestRepository) GetPending(ctx context.Context) ([]*domain.RideRequest, error) {
	query := `
		SELECT id, passenger_id, pickup_node_id, dropoff_node_id, status, created_at
		FROM ride_requests WHERE status = $1 ORDER BY created_at
	`

	return r.queryRequests(ctx, query, domain.RequestStatusPending)
}

// GetByPassengerID retrieves all requests made by a passenger, newest first.
func (r *RequestRepository) GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.RideRequest, error) {
	query := `
		SELECT id, passenger_id, pickup_node_id, dropoff_node_id, status, created_at
		FROM ride_requests WHERE passenger_id = $1 ORDER BY created_at DESC
	`

	return r.queryRequests(ctx, query, passengerID)
}

// UpdateStatus updates the status of a ride request.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	query := `UPDATE ride_requests SET status = $2 WHERE id = $1`

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

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*domain.RideRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.RideRequest
	for rows.Next() {
		var req domain.RideRequest
		err := rows.Scan(
			&req.ID,
			&req.PassengerID,
			&req.PickupNodeID,
			&req.DropoffNodeID,
			&req.Status,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &req)
	}

	return requests, rows.Err()
}
