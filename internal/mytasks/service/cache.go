package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"solarfield_backend/internal/mytasks/transport"
	"solarfield_backend/platform/logger"
)

// OverviewCache is the cache-aside layer in front of the overview queries.
// Misses and Redis failures both fall through to the database; the cache is
// never load-bearing.
type OverviewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewOverviewCache creates an overview cache. A nil client disables caching.
func NewOverviewCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *OverviewCache {
	return &OverviewCache{client: client, ttl: ttl, log: log}
}

func overviewKey(employeeID int64) string {
	return fmt.Sprintf("mytasks:overview:%d", employeeID)
}

// Get returns the cached overview for the employee, if present.
func (c *OverviewCache) Get(ctx context.Context, employeeID int64) (transport.OverviewResponse, bool) {
	if c == nil || c.client == nil {
		return transport.OverviewResponse{}, false
	}

	raw, err := c.client.Get(ctx, overviewKey(employeeID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("overview cache read failed", "error", err)
		}
		return transport.OverviewResponse{}, false
	}

	var overview transport.OverviewResponse
	if err := json.Unmarshal(raw, &overview); err != nil {
		return transport.OverviewResponse{}, false
	}
	return overview, true
}

// Set stores the overview for the employee with the configured TTL.
func (c *OverviewCache) Set(ctx context.Context, employeeID int64, overview transport.OverviewResponse) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, overviewKey(employeeID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("overview cache write failed", "error", err)
	}
}

// Invalidate drops the employee's cached overview after a status or
// assignment write.
func (c *OverviewCache) Invalidate(ctx context.Context, employeeID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, overviewKey(employeeID)).Err(); err != nil {
		c.log.Warn("overview cache invalidation failed", "error", err)
	}
}
