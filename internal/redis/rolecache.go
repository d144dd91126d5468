package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoleCacheTTL bounds how stale an authorization decision can be after a
// role change lands in the directory.
const RoleCacheTTL = 30 * time.Second

const roleCachePrefix = "cache:role:"

// RoleCache caches user roles for the authorization gate.
type RoleCache struct {
	client *redis.Client
}

// NewRoleCache creates a new RoleCache.
func NewRoleCache(client *redis.Client) *RoleCache {
	return &RoleCache{client: client}
}

// Get retrieves a cached role for an email. An empty string means a
// cache miss.
func (s *RoleCache) Get(ctx context.Context, email string) (string, error) {
	role, err := s.client.Get(ctx, roleCachePrefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // Cache miss
		}
		return "", err
	}
	return role, nil
}

// Set stores a role for an email.
func (s *RoleCache) Set(ctx context.Context, email, role string) error {
	return s.client.Set(ctx, roleCachePrefix+email, role, RoleCacheTTL).Err()
}

// Invalidate removes a cached role, used after role-transition writes.
func (s *RoleCache) Invalidate(ctx context.Context, email string) error {
	return s.client.Del(ctx, roleCachePrefix+email).Err()
}
