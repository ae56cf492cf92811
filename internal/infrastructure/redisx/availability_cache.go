// Package redisx keeps a per-item availability snapshot in Redis under
// stock:<item_id>, refreshed after every committed ledger transaction. The
// store remains the source of truth; readers fall back to it on a miss.
package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/provgso/requisition-api/internal/application/requisition"
)

const stockKeyPrefix = "stock:"

var _ requisition.AvailabilityCache = (*AvailabilityCache)(nil)

// AvailabilityCache is the go-redis adapter for the availability snapshot.
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache builds the adapter.
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// SetAvailability writes the snapshot for an item.
func (c *AvailabilityCache) SetAvailability(ctx context.Context, itemID string, available decimal.Decimal) error {
	return c.client.Set(ctx, stockKeyPrefix+itemID, available.String(), 0).Err()
}

// GetAvailability reads the snapshot. The second return is false on a miss.
func (c *AvailabilityCache) GetAvailability(ctx context.Context, itemID string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, stockKeyPrefix+itemID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	available, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse cached availability: %w", err)
	}
	return available, true, nil
}
