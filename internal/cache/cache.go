// Package cache provides an optional read-through Redis cache for
// resource detail reads. A nil *ResourceCache is valid and disables
// caching, so callers never branch on configuration.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/casesync/casesync/internal/models"
	"github.com/go-redis/redis/v8"
)

type ResourceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. Returns nil when addr is empty.
func New(addr, password string, ttl time.Duration) *ResourceCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &ResourceCache{client: client, ttl: ttl}
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *ResourceCache {
	return &ResourceCache{client: client, ttl: ttl}
}

func key(id uint) string {
	return fmt.Sprintf("resource:%d", id)
}

// Get returns the cached resource and whether it was present. Any Redis
// failure is treated as a miss; the store stays the source of truth.
func (c *ResourceCache) Get(ctx context.Context, id uint) (*models.Resource, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(id)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("resource cache read failed", "resource_id", id, "error", err)
		}
		return nil, false
	}
	var resource models.Resource
	if err := json.Unmarshal([]byte(data), &resource); err != nil {
		return nil, false
	}
	return &resource, true
}

func (c *ResourceCache) Set(ctx context.Context, resource *models.Resource) {
	if c == nil || resource == nil {
		return
	}
	data, err := json.Marshal(resource)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(resource.ID), data, c.ttl).Err(); err != nil {
		slog.Warn("resource cache write failed", "resource_id", resource.ID, "error", err)
	}
}

// Invalidate drops the cached entry after any mutating operation.
func (c *ResourceCache) Invalidate(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		slog.Warn("resource cache invalidation failed", "resource_id", id, "error", err)
	}
}

func (c *ResourceCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
