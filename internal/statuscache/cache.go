// Package statuscache caches computed store status and usage snapshots in
// Redis so repeated dashboard polls don't recompute against Postgres on
// every request. The cache is optional: a nil *Cache is a valid
// pass-through that always misses.
package statuscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
)

// DefaultTTL keeps entries short-lived; status changes at minute
// granularity and usage meters tolerate slight staleness.
const DefaultTTL = 60 * time.Second

// Cache wraps a Redis client with typed get/set helpers.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at addr. An empty addr returns nil, which all
// methods treat as "cache disabled".
func New(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func statusKey(tenantID uuid.UUID) string {
	return "store:status:" + tenantID.String()
}

func usageKey(tenantID uuid.UUID) string {
	return "store:usage:" + tenantID.String()
}

// GetStatus returns a cached store status, or ok=false on miss or error.
// Cache failures are treated as misses; the caller recomputes.
func (c *Cache) GetStatus(ctx context.Context, tenantID uuid.UUID) (hours.Status, bool) {
	var s hours.Status
	if c == nil {
		return s, false
	}
	data, err := c.rdb.Get(ctx, statusKey(tenantID)).Bytes()
	if err != nil {
		return s, false
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, false
	}
	return s, true
}

// SetStatus stores a computed status. Errors are ignored; the cache is
// best-effort only.
func (c *Cache) SetStatus(ctx context.Context, tenantID uuid.UUID, s hours.Status) {
	if c == nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, statusKey(tenantID), data, c.ttl)
}

// InvalidateStatus drops the cached status after a schedule change so the
// next poll reflects the new hours immediately.
func (c *Cache) InvalidateStatus(ctx context.Context, tenantID uuid.UUID) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, statusKey(tenantID))
}

// GetUsage returns a cached usage snapshot, or ok=false on miss or error.
func (c *Cache) GetUsage(ctx context.Context, tenantID uuid.UUID) (db.UsageCounts, bool) {
	var u db.UsageCounts
	if c == nil {
		return u, false
	}
	data, err := c.rdb.Get(ctx, usageKey(tenantID)).Bytes()
	if err != nil {
		return u, false
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return u, false
	}
	return u, true
}

// SetUsage stores a usage snapshot.
func (c *Cache) SetUsage(ctx context.Context, tenantID uuid.UUID, u db.UsageCounts) {
	if c == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, usageKey(tenantID), data, c.ttl)
}
