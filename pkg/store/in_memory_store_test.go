package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	s := NewInMemoryStore()

	_, found, err := s.Get("provider_support:apt:nginx:v1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put("provider_support:apt:nginx:v1", true, 0))

	value, found, err := s.Get("provider_support:apt:nginx:v1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, value)
}

func TestInMemoryStoreStoresFalse(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Put("provider_support:cargo:nginx:v1", false, 0))

	value, found, err := s.Get("provider_support:cargo:nginx:v1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, value)
}

func TestInMemoryStoreTTLExpiry(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Put("k", true, time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	_, found, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryStoreInvalidatePattern(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Put("provider_support:apt:nginx:v1", true, 0))
	require.NoError(t, s.Put("provider_support:apt:redis:v1", true, 0))
	require.NoError(t, s.Put("provider_support:brew:nginx:v1", true, 0))

	removed, err := s.InvalidatePattern("provider_support:apt:*")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, found, _ := s.Get("provider_support:brew:nginx:v1")
	assert.True(t, found)
}

func TestInMemoryStoreInvalidatePatternBadGlob(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.InvalidatePattern("[")
	assert.Error(t, err)
}

func TestInMemoryStoreInfo(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Put("a", true, 0))

	info := s.Info()
	assert.Equal(t, "in-memory", info["type"])
	assert.Equal(t, 1, info["size"])
}
