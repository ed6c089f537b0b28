package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inventory-billing/logger"
	"inventory-billing/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productCacheAllKey       = "products_list_all"
	productCacheAvailableKey = "products_list_available"
	productCachePattern      = "products_list_*"
	productCacheVersionKey   = "products_cache_version"
)

// ProductCache stores serialized product lists. A miss or a broken cache is
// never an error for the caller; it only costs a store read.
//
// Entries are filed under a generation. Readers take the generation before
// reading the store and write back under it; Invalidate moves to a new
// generation, so a list read before a write can never be served after it.
type ProductCache interface {
	Version(ctx context.Context) (int64, bool)
	Get(ctx context.Context, key string, version int64) ([]models.Product, bool)
	Set(ctx context.Context, key string, version int64, products []models.Product)
	Invalidate(ctx context.Context)
}

func versionedKey(key string, version int64) string {
	return fmt.Sprintf("%s:v%d", key, version)
}

// NewProductCache returns a Redis-backed cache, or a no-op cache when client
// is nil (Redis not configured or unreachable).
func NewProductCache(client *redis.Client, ttl time.Duration) ProductCache {
	if client == nil {
		return noopProductCache{}
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Version returns the current generation. A missing counter is generation 0.
func (c *RedisProductCache) Version(ctx context.Context) (int64, bool) {
	version, err := c.client.Get(ctx, productCacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		logger.With(ctx).Warn("Product cache version read failed", zap.Error(err))
		return 0, false
	}
	return version, true
}

func (c *RedisProductCache) Get(ctx context.Context, key string, version int64) ([]models.Product, bool) {
	key = versionedKey(key, version)
	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.With(ctx).Warn("Product cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(cached), &products); err != nil {
		logger.With(ctx).Warn("Discarding malformed product cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return nil, false
	}
	return products, true
}

func (c *RedisProductCache) Set(ctx context.Context, key string, version int64, products []models.Product) {
	jsonData, err := json.Marshal(products)
	if err != nil {
		return
	}
	key = versionedKey(key, version)
	if err := c.client.Set(ctx, key, string(jsonData), c.ttl).Err(); err != nil {
		logger.With(ctx).Warn("Product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate bumps the generation, then deletes the old entries to free
// memory. Entries written late under an old generation expire with the TTL.
func (c *RedisProductCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, productCacheVersionKey).Err(); err != nil {
		logger.With(ctx).Warn("Product cache version bump failed", zap.Error(err))
	}

	iter := c.client.Scan(ctx, 0, productCachePattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.With(ctx).Warn("Product cache invalidation failed", zap.Error(err))
	}
}

type noopProductCache struct{}

func (noopProductCache) Version(context.Context) (int64, bool) {
	return 0, false
}

func (noopProductCache) Get(context.Context, string, int64) ([]models.Product, bool) {
	return nil, false
}

func (noopProductCache) Set(context.Context, string, int64, []models.Product) {}

func (noopProductCache) Invalidate(context.Context) {}
