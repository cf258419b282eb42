package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packmeta/packmeta/pkg/schema"
)

func TestNewRegistry(t *testing.T) {
	config := &schema.StoresConfig{
		Stores: []schema.StoreConfig{
			{Name: "memory", Type: "in-memory"},
			{Name: "disk", Type: "sqlite", Options: map[string]any{"path": ":memory:"}},
		},
	}

	registry, err := NewRegistry(config)
	require.NoError(t, err)
	assert.Len(t, registry, 2)
	assert.IsType(t, &InMemoryStore{}, registry["memory"])
	assert.IsType(t, &SQLiteStore{}, registry["disk"])
}

func TestNewRegistryUnknownType(t *testing.T) {
	config := &schema.StoresConfig{
		Stores: []schema.StoreConfig{{Name: "x", Type: "etcd"}},
	}

	_, err := NewRegistry(config)
	assert.Error(t, err)
}
