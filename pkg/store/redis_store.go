package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errUtils "github.com/packmeta/packmeta/errors"
)

// RedisStoreOptions configures a RedisStore.
type RedisStoreOptions struct {
	// URL is a redis connection URL (redis://host:port/db). Either URL or
	// the REDIS_URL environment variable handled by the caller must be set.
	URL string `mapstructure:"url"`
}

// RedisClient is the narrow slice of the go-redis API the store uses,
// extracted so tests can substitute a fake.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	DBSize(ctx context.Context) *redis.IntCmd
}

// RedisStore keeps cached determinations in Redis.
type RedisStore struct {
	redisClient RedisClient
	url         string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore from the given options.
func NewRedisStore(options RedisStoreOptions) (*RedisStore, error) {
	if options.URL == "" {
		return nil, fmt.Errorf("%w: redis store requires a url", errUtils.ErrStoreUnavailable)
	}

	opts, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}

	return &RedisStore{
		redisClient: redis.NewClient(opts),
		url:         options.URL,
	}, nil
}

// Get retrieves a value by key.
func (s *RedisStore) Get(key string) (bool, bool, error) {
	result, err := s.redisClient.Get(context.Background(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}
	return result == "1", true, nil
}

// Put stores a key-value pair. Redis enforces the TTL server-side.
func (s *RedisStore) Put(key string, value bool, ttl time.Duration) error {
	stored := "0"
	if value {
		stored = "1"
	}
	if err := s.redisClient.Set(context.Background(), key, stored, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
	}
	return nil
}

// InvalidatePattern removes all keys matching a glob pattern using SCAN, so
// large keyspaces are walked incrementally instead of with a blocking KEYS.
func (s *RedisStore) InvalidatePattern(pattern string) (int, error) {
	ctx := context.Background()
	removed := 0
	var cursor uint64

	for {
		keys, next, err := s.redisClient.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
		}
		if len(keys) > 0 {
			deleted, err := s.redisClient.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("%w: %v", errUtils.ErrStoreUnavailable, err)
			}
			removed += int(deleted)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return removed, nil
}

// Info returns diagnostics about the store.
func (s *RedisStore) Info() map[string]any {
	size, _ := s.redisClient.DBSize(context.Background()).Result()
	return map[string]any{
		"type": "redis",
		"url":  s.url,
		"size": size,
	}
}
