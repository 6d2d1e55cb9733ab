package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client is valid and behaves like an always-empty cache.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     10,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Connect is New followed by a ping. When redis does not answer it returns
// a nil client, which disables caching, together with the ping error.
func Connect(ctx context.Context, addr, password string, db int) (*Client, error) {
	c := New(addr, password, db)
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) enabled() bool {
	return c != nil && c.client != nil
}

// Ping reports whether redis answers. A disabled cache is always healthy.
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}

// Get returns the stored bytes, or nil on a miss. Redis failures count as
// misses.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.enabled() {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil
	}
	return res, nil
}

// Set stores value under key for ttl. Write failures are dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.enabled() {
		_ = c.client.Set(ctx, key, value, ttl).Err()
	}
	return nil
}

// Delete removes key. Failures are dropped and the entry expires on its own.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c.enabled() {
		_ = c.client.Del(ctx, key).Err()
	}
	return nil
}

// GetJSON decodes a cached JSON value into dst. It reports false on a miss
// or on a value that no longer decodes.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON caches v encoded as JSON.
func (c *Client) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, payload, ttl)
}
