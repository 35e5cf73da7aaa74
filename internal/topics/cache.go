package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/the100/internal/round"
)

// Cache keeps fetched lists so a topic is loaded from its source at most once per TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]round.Record, bool, error)
	Set(ctx context.Context, key string, records []round.Record, ttl time.Duration) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache expires entries after ttl unless Set says otherwise.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]round.Record, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	records, ok := v.([]round.Record)
	return records, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, records []round.Record, ttl time.Duration) error {
	m.c.Set(key, records, ttl)
	return nil
}

// RedisCache shares lists between server instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache { return &RedisCache{client: client} }

func (r *RedisCache) Get(ctx context.Context, key string) ([]round.Record, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var records []round.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return records, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, records []round.Record, ttl time.Duration) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DialRedis connects and pings, retrying with exponential backoff.
func DialRedis(ctx context.Context, addr, password string, maxRetries uint64) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	err := backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, b, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("addr", addr).Dur("retryIn", wait).Msg("redis ping failed")
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return client, nil
}
