package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/mysticmatch/internal/config"
)

// LikeCountTTL is how long a cached like counter survives without access.
const LikeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

// Get returns "" on a cache miss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// Delete removes key and reports whether it existed.
func (c *RedisCache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.Client.Del(ctx, key).Result()
	return n > 0, err
}

// SetJSON stores v encoded as JSON. A zero ttl keeps the key until deleted.
func (c *RedisCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Client.Set(ctx, key, raw, ttl).Err()
}

// GetJSON decodes the value at key into v. found is false on a cache miss.
func (c *RedisCache) GetJSON(ctx context.Context, key string, v any) (found bool, err error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// KeyForLikeCount generates Redis key for a user's like count
func (c *RedisCache) KeyForLikeCount(userID int64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// KeyForRegistration holds an in-progress registration.
func (c *RedisCache) KeyForRegistration(userID int64) string {
	return fmt.Sprintf("session:registration:%d", userID)
}

// KeyForChat holds the target of a user's open chat.
func (c *RedisCache) KeyForChat(userID int64) string {
	return fmt.Sprintf("session:chat:%d", userID)
}

func (c *RedisCache) UpdateLikeCount(ctx context.Context, userID int64, count int64) error {
	// Always refresh TTL when updating
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, LikeCountTTL).Err()
}

// GetLikeCount returns the cached counter; ok is false on a miss.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID int64) (count int64, ok bool, err error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, LikeCountTTL).Err()
	return n, true, nil
}

// InvalidateLikeCount drops the cached counter so the next read recomputes it.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userID int64) error {
	return c.Del(ctx, c.KeyForLikeCount(userID))
}
