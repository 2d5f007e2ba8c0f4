package cache

import (
	"context"
	"errors"
	"net"
	"time"

	backend "github.com/redis/go-redis/v9"

	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

// DefaultRedisPrefix namespaces every key written by RedisCache.
const DefaultRedisPrefix = "almanac:cache:"

// RedisCache stores entries in Redis under a key prefix.
type RedisCache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithRedisPrefix replaces DefaultRedisPrefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// WithDefaultTTL sets the expiry used when Set is called with ttl == 0.
func WithDefaultTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) { c.ttl = ttl }
}

// NewRedisCache connects to addr and pings it once.
func NewRedisCache(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisCache, error) {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "connect to redis at %s", addr)
	}
	return NewRedisCacheFromClient(client, opts...), nil
}

// NewRedisCacheFromClient wraps an existing client. Close closes the client.
func NewRedisCacheFromClient(client *backend.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

// Get returns the value stored under key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify(err)
	}
	return data, true, nil
}

// Set stores data under key. A zero ttl falls back to the default TTL.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	return classify(c.client.Set(ctx, c.key(key), data, ttl).Err())
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return classify(c.client.Del(ctx, c.key(key)).Err())
}

// Clear deletes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return n, classify(err)
		}
		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return n, classify(err)
			}
			n += int(deleted)
		}
		if cursor = next; cursor == 0 {
			return n, nil
		}
	}
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks connection-level failures as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, backend.ErrClosed) {
		return Retryable(apperrors.Wrap(apperrors.ErrCodeNetwork, err, "redis"))
	}
	return err
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
