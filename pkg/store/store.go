// Package store provides the key-value memoization backends used by the
// provider-support resolver. A store holds boolean determinations keyed by
// opaque strings; the cache is advisory, so every backend failure degrades to
// a cache miss rather than an error surfaced to reconciliation.
package store

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	errUtils "github.com/packmeta/packmeta/errors"
	"github.com/packmeta/packmeta/pkg/schema"
)

// Store is a boolean-valued key-value cache with TTL and glob invalidation.
type Store interface {
	// Get returns the cached value for key and whether it was present.
	Get(key string) (bool, bool, error)

	// Put stores a value under key. A zero TTL means no expiry.
	Put(key string, value bool, ttl time.Duration) error

	// InvalidatePattern removes every key matching the glob pattern and
	// returns the number of keys removed.
	InvalidatePattern(pattern string) (int, error)

	// Info returns backend-specific diagnostics (type, size, hit counts).
	Info() map[string]any
}

// Registry maps store names to constructed backends.
type Registry map[string]Store

// NewRegistry constructs stores from configuration.
func NewRegistry(config *schema.StoresConfig) (Registry, error) {
	registry := make(Registry)
	for _, storeConfig := range config.Stores {
		switch storeConfig.Type {
		case "in-memory":
			registry[storeConfig.Name] = NewInMemoryStore()

		case "sqlite":
			var opts SQLiteStoreOptions
			if err := parseOptions(storeConfig.Options, &opts); err != nil {
				return nil, fmt.Errorf("failed to parse SQLite store options: %w", err)
			}
			store, err := NewSQLiteStore(opts)
			if err != nil {
				return nil, err
			}
			registry[storeConfig.Name] = store

		case "redis":
			var opts RedisStoreOptions
			if err := parseOptions(storeConfig.Options, &opts); err != nil {
				return nil, fmt.Errorf("failed to parse Redis store options: %w", err)
			}
			store, err := NewRedisStore(opts)
			if err != nil {
				return nil, err
			}
			registry[storeConfig.Name] = store

		default:
			return nil, fmt.Errorf("%w: %s", errUtils.ErrStoreTypeNotFound, storeConfig.Type)
		}
	}

	return registry, nil
}

func parseOptions(options map[string]any, target any) error {
	return mapstructure.Decode(options, target)
}
