package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireAssignLock attempts to acquire the assignment lock for a parcel,
// so two concurrent assign requests cannot interleave. Returns true if
// the lock was acquired, false if already held.
func (s *LockStore) AcquireAssignLock(ctx context.Context, parcelID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:parcel:assign:%s", parcelID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseAssignLock releases the assignment lock for a parcel.
func (s *LockStore) ReleaseAssignLock(ctx context.Context, parcelID string) error {
	key := fmt.Sprintf("lock:parcel:assign:%s", parcelID)

	return s.client.Del(ctx, key).Err()
}
