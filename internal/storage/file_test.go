package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyUsers, []byte(`[{"nickname":"alice"}]`)))

	raw, ok, err := store.Get(ctx, KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"nickname":"alice"}]`, string(raw))

	require.NoError(t, store.Delete(ctx, KeyUsers))
	_, ok, err = store.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	require.NoError(t, store.Delete(ctx, KeyUsers))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyCurrentUser, []byte(`{"nickname":"alice"}`)))

	reopened, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	raw, ok, err := reopened.Get(ctx, KeyCurrentUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"nickname":"alice"}`, string(raw))
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	// The store is usable again after the first write.
	require.NoError(t, store.Set(ctx, KeyUsers, []byte("[]")))
	reopened, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	_, ok, err = reopened.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStore_CreatesParentDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "store.json")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyUsers, []byte("[]")))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte(`{"a":1}`)
	require.NoError(t, store.Set(ctx, KeyUsers, value))

	// Mutating the caller's slice must not leak into the store.
	value[2] = 'x'

	raw, ok, err := store.Get(ctx, KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}
