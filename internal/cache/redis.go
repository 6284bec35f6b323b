package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Analytics cache keys
const (
	BestSellersKey  = "analytics:best_sellers"
	WorstSellersKey = "analytics:worst_sellers"
	SegmentationKey = "analytics:segmentation"
	ChartDataKey    = "analytics:chart_data"
)

var client *redis.Client

// Init initializes the Redis connection. A failed connection leaves the
// package in degraded mode: every helper becomes a no-op.
func Init(addr, password string, db int) error {
	if host := os.Getenv("REDIS_SERVICE_HOST"); host != "" {
		port := os.Getenv("REDIS_SERVICE_PORT")
		if port == "" {
			port = "6379"
		}
		addr = host + ":" + port
	}

	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateOrderCaches clears caches derived from order data.
// Called when: CreateOrder, UpdateOrder, DeleteOrder, CreatePayment
func InvalidateOrderCaches(ctx context.Context) {
	InvalidatePattern(ctx, "analytics:*")
	InvalidatePattern(ctx, "orders:*")
}

// InvalidateStoreCaches clears caches derived from store data.
// Called when: CreateStore, UpdateStore, DeleteStore
func InvalidateStoreCaches(ctx context.Context) {
	InvalidateKeys(ctx, ChartDataKey)
	InvalidatePattern(ctx, "stores:*")
}

// InvalidateProductCaches clears caches derived from product data.
// Called when: product writes and container intake
func InvalidateProductCaches(ctx context.Context) {
	InvalidatePattern(ctx, "analytics:*")
	InvalidatePattern(ctx, "products:*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
