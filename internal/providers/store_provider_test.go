package providers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nicks/internal/store"
	"nicks/internal/structures"
)

func TestNewStoreProvider_Memory(t *testing.T) {
	conf := &structures.Config{Store: structures.StoreConfig{Backend: "memory"}}

	backend, cleanup, err := NewStoreProvider(conf, &nopLogger{})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, backend)

	cleanup()
	_, err = backend.Count()
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestNewStoreProvider_Bolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nicks.db")
	conf := &structures.Config{Store: structures.StoreConfig{Backend: "bolt", FilePath: path}}

	backend, cleanup, err := NewStoreProvider(conf, &nopLogger{})
	require.NoError(t, err)
	defer cleanup()

	bolt, ok := backend.(*store.BoltStore)
	require.True(t, ok)
	assert.Equal(t, path, bolt.Path())
}

func TestNewStoreProvider_UnknownBackend(t *testing.T) {
	conf := &structures.Config{Store: structures.StoreConfig{Backend: "rocksdb"}}

	_, _, err := NewStoreProvider(conf, &nopLogger{})
	assert.Error(t, err)
}
