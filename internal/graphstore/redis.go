package graphstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces graph keys in redis
const DefaultKeyPrefix = "ranker:graph:"

// RedisStore keeps graph records in redis under versioned keys
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to addr and checks the connection. A zero ttl keeps records forever.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisStoreFromClient(client, DefaultKeyPrefix, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) latestKey() string { return s.prefix + "latest" }

func (s *RedisStore) versionKey(version string) string { return s.prefix + version }

// Save writes the record and the latest pointer in one transaction
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.versionKey(rec.Version), data, s.ttl)
		pipe.Set(ctx, s.latestKey(), rec.Version, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save graph %s: %w", rec.Version, err)
	}
	return nil
}

// Load reads the latest record
func (s *RedisStore) Load(ctx context.Context) (*Record, error) {
	version, err := s.client.Get(ctx, s.latestKey()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest graph version: %w", err)
	}

	data, err := s.client.Get(ctx, s.versionKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", version, err)
	}
	return decode(data)
}

// Close closes the redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
