package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache is a thin read-through layer over Redis for calendar responses.
// Calendar projection is pure computation over a snapshot, so short TTLs are
// safe: a stale entry is at worst a few seconds behind a rule edit.
//
// Cache failures are never surfaced to callers; a broken Redis degrades to
// computing every request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// New creates a cache. A nil client or non-positive TTL yields a disabled
// cache whose Get always misses.
func New(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether the cache will actually store anything.
func (c *Cache) Enabled() bool {
	return c.client != nil && c.ttl > 0
}

// PricingCalendarKey builds the cache key for a pricing calendar request.
func PricingCalendarKey(propertyID int64, start, end string) string {
	return fmt.Sprintf("pricing:calendar:%d:%s:%s", propertyID, start, end)
}

// AvailabilityCalendarKey builds the cache key for an availability calendar request.
func AvailabilityCalendarKey(propertyID int64, start, end string) string {
	return fmt.Sprintf("availability:calendar:%d:%s:%s", propertyID, start, end)
}

// Get unmarshals a cached value into out. Returns false on miss, disabled
// cache, or any Redis/decode error.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache decode failed")
		return false
	}
	return true
}

// Set stores a value with the configured TTL. Errors are logged, not returned.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}
