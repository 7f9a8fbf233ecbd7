package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/ahorros/internal/config"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, "ahorros_goals")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "ahorros_goals", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "ahorros_goals", []byte(`[1,2]`)))

	got, err := s.Get(ctx, "ahorros_goals")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, s.Delete(ctx, "ahorros_goals"))
	require.NoError(t, s.Delete(ctx, "ahorros_goals"))
	_, err = s.Get(ctx, "ahorros_goals")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", data))
	data[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestNewSelectsFileStore(t *testing.T) {
	cfg := &config.Config{BlobDriver: config.BlobFile, BlobDir: t.TempDir()}

	store, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	cfg.BlobDriver = "ftp"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestFileStoreWatchReportsOtherWriters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	watched, err := NewFileStore(dir)
	require.NoError(t, err)
	writer, err := NewFileStore(dir)
	require.NoError(t, err)

	ready := make(chan struct{})
	keys := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- watched.Watch(ctx, ready, func(key string) { keys <- key })
	}()
	<-ready

	require.NoError(t, writer.Put(ctx, "ahorros_contributions", []byte(`[]`)))

	select {
	case key := <-keys:
		assert.Equal(t, "ahorros_contributions", key)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestBlobKey(t *testing.T) {
	key, ok := blobKey("/data/ahorros_goals.json")
	assert.True(t, ok)
	assert.Equal(t, "ahorros_goals", key)

	_, ok = blobKey("/data/ahorros_goals.123.tmp")
	assert.False(t, ok)
}
