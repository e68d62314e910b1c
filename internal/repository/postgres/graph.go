package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// GraphRepository is a PostgreSQL implementation of repository.GraphRepository.
// Edges order by their serial ID, so EdgesFrom enumerates them in
// insertion order; the path finder's tie-breaking depends on that.
type GraphRepository struct {
	q Querier
}

// NewGraphRepository creates a new PostgreSQL graph repository.
func NewGraphRepository(db *sql.DB) *GraphRepository {
	return &GraphRepository{q: db}
}

// EdgesFrom returns the outgoing edges of a node in insertion order.
func (r *GraphRepository) EdgesFrom(ctx context.Context, nodeID string) ([]domain.Edge, error) {
	query := `SELECT id, from_node_id, to_node_id FROM edges WHERE from_node_id = $1 ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Edge
	for rows.Next() {
		var edge domain.Edge
		if err := rows.Scan(&edge.ID, &edge.From, &edge.To); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}

	return edges, rows.Err()
}

// NodeExists reports whether a node exists.
func (r *GraphRepository) NodeExists(ctx context.Context, nodeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM nodes WHERE id = $1)`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, nodeID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// GetNode retrieves a node by ID.
func (r *GraphRepository) GetNode(ctx context.Context, nodeID string) (*domain.Node, error) {
	query := `SELECT id, name FROM nodes WHERE id = $1`

	var node domain.Node
	err := r.q.QueryRowContext(ctx, query, nodeID).Scan(&node.ID, &node.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &node, nil
}

// ListNodes retrieves all nodes ordered by name.
func (r *GraphRepository) ListNodes(ctx context.Context) ([]*domain.Node, error) {
	query := `SELECT id, name FROM nodes ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*domain.Node
	for rows.Next() {
		var node domain.Node
		if err := rows.Scan(&node.ID, &node.Name); err != nil {
			return nil, err
		}
		nodes = append(nodes, &node)
	}

	return nodes, rows.Err()
}
