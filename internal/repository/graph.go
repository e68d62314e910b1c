package repository

import (
	"context"

	"carpool/internal/domain"
)

// GraphRepository provides read access to the directed road graph. Edges
// are immutable once created, so implementations may be read concurrently
// without locking.
type GraphRepository interface {
	// EdgesFrom returns the outgoing edges of a node in stable insertion
	// order. Breadth-first searches rely on this order for deterministic
	// tie-breaking between equal-length paths.
	EdgesFrom(ctx context.Context, nodeID string) ([]domain.Edge, error)

	// NodeExists reports whether a node exists.
	NodeExists(ctx context.Context, nodeID string) (bool, error)

	// GetNode retrieves a node by ID.
	GetNode(ctx context.Context, nodeID string) (*domain.Node, error)

	// ListNodes retrieves all nodes.
	ListNodes(ctx context.Context) ([]*domain.Node, error)
}
