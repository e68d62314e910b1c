package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. Offer acceptance and
// trip settlement serialize their read-recompute-write sequences behind
// these locks.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireTripLock attempts to acquire the exclusive lock for a trip.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:trip:%s", tripID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseTripLock releases the lock for the given trip.
func (s *LockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	key := fmt.Sprintf("lock:trip:%s", tripID)

	return s.client.Del(ctx, key).Err()
}

// AcquireRequestLock attempts to acquire the exclusive lock for a ride
// request. Guarantees at most one offer wins a racing acceptance.
func (s *LockStore) AcquireRequestLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:request:%s", requestID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseRequestLock releases the lock for the given request.
func (s *LockStore) ReleaseRequestLock(ctx context.Context, requestID string) error {
	key := fmt.Sprintf("lock:request:%s", requestID)

	return s.client.Del(ctx, key).Err()
}
