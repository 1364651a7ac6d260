package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	content := []byte("%PDF-1.4 balance sheet")
	require.NoError(t, store.Upload(ctx, "user-1/1700000000000.pdf", bytes.NewReader(content), int64(len(content)), "application/pdf"))

	rc, err := store.Download(ctx, "user-1/1700000000000.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, got)

	require.NoError(t, store.Remove(ctx, "user-1/1700000000000.pdf"))
	_, err = store.Download(ctx, "user-1/1700000000000.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Remove(ctx, "user-1/1700000000000.pdf"))
}

func TestLocalStoreRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(context.Background(), "../outside.txt", bytes.NewReader(nil), 0, "")
	assert.Error(t, err)

	_, err = store.Download(context.Background(), "")
	assert.Error(t, err)
}

func TestLocalStoreHonoursCancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Upload(ctx, "user-1/a.txt", bytes.NewReader([]byte("x")), 1, "text/plain")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.Download(context.Background(), "user-1/a.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}
