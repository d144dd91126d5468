package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireAssignLock(ctx context.Context, parcelID string, ttl time.Duration) (bool, error)
	ReleaseAssignLock(ctx context.Context, parcelID string) error
}

// RoleCacheInterface defines the interface for role caching.
type RoleCacheInterface interface {
	Get(ctx context.Context, email string) (string, error)
	Set(ctx context.Context, email, role string) error
	Invalidate(ctx context.Context, email string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
	_ RoleCacheInterface = (*RoleCache)(nil)
)
