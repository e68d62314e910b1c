package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches road-graph adjacency lists in Redis. Edges are
// immutable once created, so entries only expire to bound memory, never
// to chase writes.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// AdjacencyCacheTTL bounds how long an adjacency list stays cached.
const AdjacencyCacheTTL = 5 * time.Minute

const adjacencyCachePrefix = "cache:edges:"

// CachedEdge is one outgoing edge in a cached adjacency list. Order is
// preserved from the graph store, which the path finder's tie-breaking
// depends on.
type CachedEdge struct {
	ID int64  `json:"id"`
	To string `json:"to"`
}

// GetAdjacency retrieves a node's cached outgoing edges. The second
// return value is false on a cache miss.
func (s *CacheStore) GetAdjacency(ctx context.Context, nodeID string) ([]CachedEdge, bool, error) {
	key := adjacencyCachePrefix + nodeID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var edges []CachedEdge
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, false, err
	}

	return edges, true, nil
}

// SetAdjacency caches a node's outgoing edges.
func (s *CacheStore) SetAdjacency(ctx context.Context, nodeID string, edges []CachedEdge) error {
	key := adjacencyCachePrefix + nodeID

	data, err := json.Marshal(edges)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, AdjacencyCacheTTL).Err()
}
