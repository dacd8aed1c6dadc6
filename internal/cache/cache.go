package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rifaamiga/raffle-api/internal/config"
)

// Store is the read cache sitting in front of the public raffle endpoints.
// Entries carry short TTLs; the database stays authoritative for writes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss indicates the key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

// NewStore initialises the configured cache store (redis or noop).
func NewStore(conf *config.CacheConfig) (Store, error) {
	switch conf.Driver {
	case "noop", "":
		zap.L().Info("cache disabled; using noop store")
		return NoopStore{}, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		zap.L().Info("redis cache connected", zap.String("addr", conf.RedisAddr))
		return &redisStore{client: client}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", conf.Driver)
	}
}

// NoopStore always misses. Used when caching is disabled and in tests.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NoopStore) Delete(context.Context, string) error {
	return nil
}

type redisStore struct {
	client *goredis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
