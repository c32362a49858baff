package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	menuSettingsKey = "network_menu:settings"
	sitePattern     = "network_menu:site:*"
)

var (
	// ErrCacheMiss is returned by Get when the key is not stored.
	ErrCacheMiss = errors.New("key not found")
	// ErrCacheDisabled is returned by Get when caching is turned off.
	ErrCacheDisabled = errors.New("cache disabled")
)

type Cache struct {
	client  *redis.Client
	enabled bool
}

func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewCacheWithClient(client), nil
}

// NewCacheWithClient wraps an existing client. A nil client yields a
// disabled cache.
func NewCacheWithClient(client *redis.Client) *Cache {
	if client == nil {
		return &Cache{enabled: false}
	}
	return &Cache{client: client, enabled: true}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext creates a context with timeout for Redis operations
func (c *Cache) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, defaultOperationTimeout)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Exists(ctx, key).Result()
	return val > 0, err
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) CacheMenuSettings(ctx context.Context, settings interface{}, ttl time.Duration) error {
	return c.Set(ctx, menuSettingsKey, settings, ttl)
}

func (c *Cache) GetCachedMenuSettings(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, menuSettingsKey, dest)
}

func (c *Cache) InvalidateMenuSettings(ctx context.Context) error {
	return c.Delete(ctx, menuSettingsKey)
}

func (c *Cache) CacheSite(ctx context.Context, siteID uint, site interface{}, ttl time.Duration) error {
	return c.Set(ctx, fmt.Sprintf("network_menu:site:%d", siteID), site, ttl)
}

func (c *Cache) GetCachedSite(ctx context.Context, siteID uint, dest interface{}) error {
	return c.Get(ctx, fmt.Sprintf("network_menu:site:%d", siteID), dest)
}

func (c *Cache) InvalidateSite(ctx context.Context, siteID uint) error {
	return c.Delete(ctx, fmt.Sprintf("network_menu:site:%d", siteID))
}

func (c *Cache) InvalidateSites(ctx context.Context) error {
	return c.DeletePattern(ctx, sitePattern)
}
