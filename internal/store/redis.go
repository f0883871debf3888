package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dshills/seoaudit/internal/audit"
)

const keyPrefix = "seoaudit:latest:"

// DefaultTTL is how long a cached audit lives when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379/0")
	URL string

	// TTL is the expiry of each cached result. Zero means DefaultTTL.
	TTL time.Duration

	ConnectTimeout time.Duration
}

// RedisStore caches the latest result per project in Redis, msgpack encoded.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("store.NewRedisStore: parse url: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store.NewRedisStore: connect: %w", err)
	}

	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

func (s *RedisStore) Save(ctx context.Context, r *audit.Result) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("store.Save: encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+r.ProjectID, buf.Bytes(), s.ttl).Err(); err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	return nil
}

func (s *RedisStore) Latest(ctx context.Context, projectID string) (*audit.Result, error) {
	data, err := s.client.Get(ctx, keyPrefix+projectID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store.Latest: %w", err)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	var r audit.Result
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("store.Latest: decode: %w", err)
	}
	return &r, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
