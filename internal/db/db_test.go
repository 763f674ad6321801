package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "data", "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	database := openTemp(t)

	_, ok, err := database.GetItem(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.SetItem(ctx, "k", "v1"))
	require.NoError(t, database.SetItem(ctx, "k", "v2"))

	value, ok, err := database.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", value)

	require.NoError(t, database.RemoveItem(ctx, "k"))
	require.NoError(t, database.RemoveItem(ctx, "k"))
	_, ok, err = database.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.SetItem(context.Background(), "k", "v"))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	value, ok, err := second.GetItem(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestOpen_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	require.NoError(t, os.WriteFile(path, []byte("definitely not sqlite, just some text that is long enough"), 0644))

	_, err := Open(path)
	require.Error(t, err)

	// The failed handle is released, so the path can be replaced and reopened
	require.NoError(t, os.Remove(path))
	database, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, database.Close())
}
