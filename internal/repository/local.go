package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/templui/ahorros/internal/storage"
)

// Blob keys of the local backend, one blob per collection.
const (
	LocalGoalsKey         = "ahorros_goals"
	LocalContributionsKey = "ahorros_contributions"
	LocalSettingsKey      = "ahorros_settings"
	LocalUsersKey         = "ahorros_users"
)

// Reloader is implemented by local repositories. Reload re-reads the
// collection blob written by another process and reports whether it changed.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// localCollection holds a whole collection in memory and rewrites its blob
// on every mutation. Last writer wins; there is no cross-process locking.
type localCollection[T any] struct {
	mu     sync.RWMutex
	store  storage.Store
	key    string
	decode func([]byte) ([]T, error)
	items  []T
	raw    []byte
}

func loadCollection[T any](ctx context.Context, store storage.Store, key string, decode func([]byte) ([]T, error)) (*localCollection[T], error) {
	if decode == nil {
		decode = decodeJSON[T]
	}
	c := &localCollection[T]{store: store, key: key, decode: decode}

	_, err := c.reload(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// reload replaces the items with the stored blob when its bytes differ from
// the last ones seen. A missing blob leaves the items alone.
func (c *localCollection[T]) reload(ctx context.Context) (bool, error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", c.key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.raw != nil && bytes.Equal(c.raw, data) {
		return false, nil
	}
	items, err := c.decode(data)
	if err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	c.items = items
	c.raw = data
	return true, nil
}

func decodeJSON[T any](data []byte) ([]T, error) {
	var items []T
	err := json.Unmarshal(data, &items)
	return items, err
}

func (c *localCollection[T]) all() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// mutate hands fn a copy of the items and persists what it returns. When fn
// or the write fails the in-memory collection is left untouched.
func (c *localCollection[T]) mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(append([]T(nil), c.items...))
	if err != nil {
		return err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}

	err = c.store.Put(ctx, c.key, data)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}

	c.items = next
	c.raw = data
	return nil
}
