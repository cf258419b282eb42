package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(SQLiteStoreOptions{Path: filepath.Join(t.TempDir(), "cache.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, found, err := s.Get("provider_support:apt:nginx:v1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put("provider_support:apt:nginx:v1", true, 0))

	value, found, err := s.Get("provider_support:apt:nginx:v1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, value)
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	s := newTestSQLiteStore(t)

	require.NoError(t, s.Put("k", true, 0))
	require.NoError(t, s.Put("k", false, 0))

	value, found, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, value)
}

func TestSQLiteStoreTTLExpiry(t *testing.T) {
	s := newTestSQLiteStore(t)

	// A TTL below one second truncates to an already-passed Unix timestamp.
	require.NoError(t, s.Put("k", true, time.Nanosecond))
	time.Sleep(1100 * time.Millisecond)

	_, found, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStoreInvalidatePattern(t *testing.T) {
	s := newTestSQLiteStore(t)
	require.NoError(t, s.Put("provider_support:apt:nginx:v1", true, 0))
	require.NoError(t, s.Put("provider_support:apt:redis:v1", false, 0))
	require.NoError(t, s.Put("provider_support:npm:express:v1", true, 0))

	removed, err := s.InvalidatePattern("provider_support:apt:*")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, found, _ := s.Get("provider_support:npm:express:v1")
	assert.True(t, found)
}

func TestSQLiteStoreInfo(t *testing.T) {
	s := newTestSQLiteStore(t)
	require.NoError(t, s.Put("a", true, 0))

	info := s.Info()
	assert.Equal(t, "sqlite", info["type"])
	assert.Equal(t, 1, info["size"])
}
