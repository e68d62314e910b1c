package redis

import (
	"context"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// CachedGraphRepository fronts a graph repository with the adjacency
// cache. Detour planning issues O(n^2) shortest-path searches over the
// same small node set, so most EdgesFrom calls are repeats.
type CachedGraphRepository struct {
	inner repository.GraphRepository
	cache *CacheStore
}

// NewCachedGraphRepository wraps a graph repository with caching.
func NewCachedGraphRepository(inner repository.GraphRepository, cache *CacheStore) *CachedGraphRepository {
	return &CachedGraphRepository{inner: inner, cache: cache}
}

// EdgesFrom returns the node's outgoing edges, from cache when possible.
// Cache failures fall through to the inner repository.
func (r *CachedGraphRepository) EdgesFrom(ctx context.Context, nodeID string) ([]domain.Edge, error) {
	if cached, hit, err := r.cache.GetAdjacency(ctx, nodeID); err == nil && hit {
		edges := make([]domain.Edge, len(cached))
		for i, e := range cached {
			edges[i] = domain.Edge{ID: e.ID, From: nodeID, To: e.To}
		}
		return edges, nil
	}

	edges, err := r.inner.EdgesFrom(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	cached := make([]CachedEdge, len(edges))
	for i, e := range edges {
		cached[i] = CachedEdge{ID: e.ID, To: e.To}
	}
	_ = r.cache.SetAdjacency(ctx, nodeID, cached)

	return edges, nil
}

// NodeExists reports whether a node exists.
func (r *CachedGraphRepository) NodeExists(ctx context.Context, nodeID string) (bool, error) {
	return r.inner.NodeExists(ctx, nodeID)
}

// GetNode retrieves a node by ID.
func (r *CachedGraphRepository) GetNode(ctx context.Context, nodeID string) (*domain.Node, error) {
	return r.inner.GetNode(ctx, nodeID)
}

// ListNodes retrieves all nodes.
func (r *CachedGraphRepository) ListNodes(ctx context.Context) ([]*domain.Node, error) {
	return r.inner.ListNodes(ctx)
}

var _ repository.GraphRepository = (*CachedGraphRepository)(nil)
