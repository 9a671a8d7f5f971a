// File: internal/infra/redis/price_cache.go
package redis

import (
	"context"
	"encoding/json"
	"errors"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"

	"github.com/go-redis/redis/v8"
)

const priceSnapshotKey = "prices:latest"

// PriceCache holds the most recent crypto spot snapshot. The key never
// expires: a failed refresh leaves the last good snapshot in place.
type PriceCache struct {
	client *redClient
}

func NewPriceCache(client *redClient) *PriceCache {
	return &PriceCache{client: client}
}

func (c *PriceCache) Store(ctx context.Context, snap *model.PriceSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, priceSnapshotKey, data, 0)
}

func (c *PriceCache) Latest(ctx context.Context) (*model.PriceSnapshot, error) {
	data, err := c.client.Get(ctx, priceSnapshotKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var snap model.PriceSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
