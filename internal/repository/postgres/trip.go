package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip. Route and passed nodes are stored as JSON
// arrays of node IDs.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, driver_id, start_node_id, end_node_id, route, current_node_id, passed_node_ids, max_passengers, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	routeJSON, passedJSON, err := marshalRouteState(trip)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.StartNodeID,
		trip.EndNodeID,
		routeJSON,
		nullString(trip.CurrentNodeID),
		passedJSON,
		trip.MaxPassengers,
		trip.Status,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, driver_id, start_node_id, end_node_id, route, current_node_id, passed_node_ids, max_passengers, status, created_at
		FROM trips WHERE id = $1
	`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetByDriverID retrieves all trips owned by a driver, newest first.
func (r *TripRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	query := `
		SELECT id, driver_id, start_node_id, end_node_id, route, current_node_id, passed_node_ids, max_passengers, status, created_at
		FROM trips WHERE driver_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Update rewrites a trip's route, position, passed set and status.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET route = $2, current_node_id = $3, passed_node_ids = $4, status = $5
		WHERE id = $1
	`

	routeJSON, passedJSON, err := marshalRouteState(trip)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		trip.ID,
		routeJSON,
		nullString(trip.CurrentNodeID),
		passedJSON,
		trip.Status,
	)
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var routeJSON, passedJSON []byte
	var currentNode sql.NullString

	err := row.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.StartNodeID,
		&trip.EndNodeID,
		&routeJSON,
		&currentNode,
		&passedJSON,
		&trip.MaxPassengers,
		&trip.Status,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(routeJSON, &trip.Route); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(passedJSON, &trip.PassedNodeIDs); err != nil {
		return nil, err
	}
	if currentNode.Valid {
		trip.CurrentNodeID = currentNode.String
	}

	return &trip, nil
}

func marshalRouteState(trip *domain.Trip) (routeJSON, passedJSON []byte, err error) {
	routeJSON, err = json.Marshal(trip.Route)
	if err != nil {
		return nil, nil, err
	}
	passed := trip.PassedNodeIDs
	if passed == nil {
		passed = []string{}
	}
	passedJSON, err = json.Marshal(passed)
	if err != nil {
		return nil, nil, err
	}
	return routeJSON, passedJSON, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
