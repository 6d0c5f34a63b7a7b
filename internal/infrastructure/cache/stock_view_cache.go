package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appinv "github.com/bizops/backend/internal/application/inventory"
	"github.com/bizops/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultStockTTL = 5 * time.Minute

// RedisStockViewCache caches single-item stock views in Redis and drops them
// after ledger writes. Both sides are best effort: a Redis failure is logged
// and the caller falls through to the database.
type RedisStockViewCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisStockViewCache creates a cache backed by a new Redis connection
func NewRedisStockViewCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisStockViewCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultStockTTL
	}

	return &RedisStockViewCache{
		client:    client,
		keyPrefix: "stock:item:",
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// NewRedisStockViewCacheWithClient creates a cache with an existing Redis
// client, useful for testing or client sharing
func NewRedisStockViewCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStockViewCache {
	if ttl <= 0 {
		ttl = defaultStockTTL
	}
	return &RedisStockViewCache{
		client:    client,
		keyPrefix: "stock:item:",
		ttl:       ttl,
		logger:    logger,
	}
}

// GetItem returns the cached view for the pair, if present
func (c *RedisStockViewCache) GetItem(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*appinv.InventoryItemResponse, bool) {
	raw, err := c.client.Get(ctx, c.key(tenantID, warehouseID, productID)).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.Warn("stock cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var item appinv.InventoryItemResponse
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, false
	}
	return &item, true
}

// SetItem stores the view with the configured TTL
func (c *RedisStockViewCache) SetItem(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, item *appinv.InventoryItemResponse) {
	raw, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(tenantID, warehouseID, productID), raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("stock cache write failed", zap.Error(err))
	}
}

// InvalidateItem drops the cached view for the pair
func (c *RedisStockViewCache) InvalidateItem(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) {
	if err := c.client.Del(ctx, c.key(tenantID, warehouseID, productID)).Err(); err != nil && c.logger != nil {
		c.logger.Warn("stock cache invalidation failed", zap.Error(err))
	}
}

// Close closes the underlying Redis client
func (c *RedisStockViewCache) Close() error {
	return c.client.Close()
}

func (c *RedisStockViewCache) key(tenantID, warehouseID, productID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s:%s", c.keyPrefix, tenantID, warehouseID, productID)
}

// Ensure RedisStockViewCache satisfies the application-side cache contracts
var _ appinv.StockViewCache = (*RedisStockViewCache)(nil)
var _ appinv.StockCacheInvalidator = (*RedisStockViewCache)(nil)
