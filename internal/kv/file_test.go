package kv_test

import (
	"context"
	"testing"

	"github.com/corinapavel/atelier/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	blob := []byte(`{"version":1,"items":[]}`)

	require.NoError(t, store.Save(ctx, "cart:abc-123", blob))

	got, err := store.Load(ctx, "cart:abc-123")
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestFileStore_LoadMissingNamespace(t *testing.T) {
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "cart:never-saved")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "cart:s1", []byte("first")))
	require.NoError(t, store.Save(ctx, "cart:s1", []byte("second")))

	got, err := store.Load(ctx, "cart:s1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestFileStore_NamespacesAreIsolated(t *testing.T) {
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "cart:a", []byte("a")))
	require.NoError(t, store.Save(ctx, "cart:b", []byte("b")))

	got, err := store.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)
}
