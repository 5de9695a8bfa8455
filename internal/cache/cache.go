package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe: an unreachable Redis behaves like an
// empty cache. A nil *Client is valid and caches nothing.
type Client struct {
	rdb *redis.Client
}

// New creates a Redis-backed client, or returns nil when addr is empty.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Enabled reports whether a Redis server is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Redis returns the underlying client for callers that need errors surfaced,
// or nil when the cache is disabled.
func (c *Client) Redis() *redis.Client {
	if !c.Enabled() {
		return nil
	}
	return c.rdb
}

// Ping checks connectivity; a disabled client always succeeds.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, nil
	}
	res, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.Warnf("cache get %s: %v", key, err)
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warnf("cache set %s: %v", key, err)
	}
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warnf("cache delete %v: %v", keys, err)
	}
	return nil
}

// GetJSON decodes the cached value at key into a new T. It reports false on a miss
// or an undecodable entry.
func GetJSON[T any](ctx context.Context, c *Client, key string) (*T, bool) {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return nil, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}

// SetJSON encodes v and stores it with ttl.
func SetJSON(ctx context.Context, c *Client, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, payload, ttl)
}
