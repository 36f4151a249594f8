// Package cache implements cache adapters backed by Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSankeyCache implements adapter.SankeyCache on top of Redis.
type RedisSankeyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSankeyCache creates a new RedisSankeyCache instance.
func NewRedisSankeyCache(client *redis.Client, ttl time.Duration) *RedisSankeyCache {
	return &RedisSankeyCache{client: client, ttl: ttl}
}

func sankeyKey(orgID uuid.UUID, financialYear int) string {
	return fmt.Sprintf("sankey:%s:%d", orgID, financialYear)
}

func (c *RedisSankeyCache) Get(ctx context.Context, orgID uuid.UUID, financialYear int) ([]byte, error) {
	payload, err := c.client.Get(ctx, sankeyKey(orgID, financialYear)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

func (c *RedisSankeyCache) Set(ctx context.Context, orgID uuid.UUID, financialYear int, payload []byte) error {
	return c.client.Set(ctx, sankeyKey(orgID, financialYear), payload, c.ttl).Err()
}

func (c *RedisSankeyCache) Invalidate(ctx context.Context, orgID uuid.UUID) error {
	pattern := fmt.Sprintf("sankey:%s:*", orgID)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
