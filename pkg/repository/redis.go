package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("cache miss")

const productCacheTTL = 10 * time.Minute

// Cache wraps the Redis client used for the product read cache and the
// request rate limiter.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg *config.RedisConfig) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *Cache) CacheProduct(ctx context.Context, product *models.Product) error {
	return c.setJSON(ctx, productKey(product.ID.Hex()), product, productCacheTTL)
}

func (c *Cache) GetCachedProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.getJSON(ctx, productKey(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Cache) InvalidateProduct(ctx context.Context, id string) error {
	return c.client.Del(ctx, productKey(id)).Err()
}

// CountRequest increments the fixed-window rate counter for key and returns
// the count within the current window. The window TTL is set on first hit.
func (c *Cache) CountRequest(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
