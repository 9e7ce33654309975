package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyValueStore(t *testing.T, s port.KeyValueStore) {
	t.Helper()
	ctx := t.Context()

	_, ok, err := s.Get(ctx, "whatsappNumber")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "whatsappNumber", "11 99999-0000"))
	require.NoError(t, s.Set(ctx, "whatsappNumber", "11 98888-0000"))

	v, ok, err := s.Get(ctx, "whatsappNumber")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "11 98888-0000", v)

	require.NoError(t, s.Set(ctx, "adminPassword", ""))
	v, ok, err = s.Get(ctx, "adminPassword")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Set(canceled, "k", "v"))
}

func TestMemoryStore(t *testing.T) {
	testKeyValueStore(t, storage.NewMemoryStore())
}

func TestBoltStore(t *testing.T) {
	t.Run("ReadWrite", func(t *testing.T) {
		s, err := storage.NewBoltStore(filepath.Join(t.TempDir(), "kv.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		testKeyValueStore(t, s)
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kv.db")

		s, err := storage.NewBoltStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Set(t.Context(), "adminUsername", "owner"))
		require.NoError(t, s.Close())

		s, err = storage.NewBoltStore(path)
		require.NoError(t, err)
		defer s.Close()

		v, ok, err := s.Get(t.Context(), "adminUsername")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "owner", v)
	})
}

func TestOpen(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		s, err := storage.Open(t.Context(), storage.DriverMemory, "")
		require.NoError(t, err)
		assert.IsType(t, &storage.MemoryStore{}, s)
	})

	t.Run("Bolt", func(t *testing.T) {
		s, err := storage.Open(
			t.Context(), storage.DriverBolt, filepath.Join(t.TempDir(), "kv.db"),
		)
		require.NoError(t, err)
		assert.NoError(t, s.Close())
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := storage.Open(t.Context(), "redis", "")
		assert.ErrorIs(t, err, storage.ErrUnknownDriver)
	})
}
