package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinv "github.com/retailops/backend/internal/application/inventory"
	"github.com/retailops/backend/internal/domain/inventory"
)

const (
	availabilityKeyPrefix = "stock:availability:"
	availabilityScanBatch = 100

	// DefaultAvailabilityTTL bounds staleness even when an invalidation is missed
	DefaultAvailabilityTTL = 30 * time.Second
)

// RedisAvailabilityCache caches summed available quantities in Redis.
// Keys are scoped per tenant and item so one item's mutations only
// invalidate its own entries.
type RedisAvailabilityCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewRedisAvailabilityCache creates a new Redis-backed availability cache
func NewRedisAvailabilityCache(client *redis.Client, logger *zap.Logger, ttl time.Duration) *RedisAvailabilityCache {
	if ttl <= 0 {
		ttl = DefaultAvailabilityTTL
	}
	return &RedisAvailabilityCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Get returns the cached total and whether the key was present
func (c *RedisAvailabilityCache) Get(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) (decimal.Decimal, bool, error) {
	key := availabilityKey(tenantID, item, location)

	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get availability from cache: %w", err)
	}

	total, err := decimal.NewFromString(value)
	if err != nil {
		// Corrupted entry, drop it and treat as a miss
		_ = c.client.Del(ctx, key)
		c.logger.Warn("dropped corrupted availability cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		return decimal.Zero, false, nil
	}
	return total, true, nil
}

// Set stores the total for the item/location pair
func (c *RedisAvailabilityCache) Set(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location, total decimal.Decimal) error {
	key := availabilityKey(tenantID, item, location)
	if err := c.client.Set(ctx, key, total.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache availability: %w", err)
	}
	return nil
}

// Invalidate drops all cached totals for the item. Uses SCAN to avoid
// blocking Redis with the KEYS command.
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef) error {
	pattern := itemKeyPrefix(tenantID, item) + "*"

	var cursor uint64
	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, availabilityScanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan availability keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete availability keys: %w", err)
			}
		}

		if cursor == 0 {
			break
		}
	}
	return nil
}

// itemKeyPrefix builds the key prefix shared by all of an item's entries
func itemKeyPrefix(tenantID uuid.UUID, item inventory.ItemRef) string {
	return availabilityKeyPrefix + tenantID.String() + ":" + string(item.Kind) + ":" + item.ID.String() + ":"
}

// availabilityKey builds the full key for one item/location pair
func availabilityKey(tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) string {
	if location == nil {
		return itemKeyPrefix(tenantID, item) + "all"
	}
	key := itemKeyPrefix(tenantID, item) + string(location.Type)
	if location.LocationID != nil {
		key += ":" + location.LocationID.String()
	}
	return key
}

// Ensure RedisAvailabilityCache implements AvailabilityCache
var _ appinv.AvailabilityCache = (*RedisAvailabilityCache)(nil)
