package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher is implemented by stores that can report blobs changed by other
// processes.
type Watcher interface {
	// Watch calls onChange with the key of every blob written until ctx is
	// cancelled. ready, when not nil, is closed once changes are being
	// observed.
	Watch(ctx context.Context, ready chan<- struct{}, onChange func(key string)) error
}

func (s *FileStore) Watch(ctx context.Context, ready chan<- struct{}, onChange func(key string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	err = w.Add(s.dir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	slog.Debug("watching blob directory", "dir", s.dir)
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			key, ok := blobKey(event.Name)
			if ok {
				onChange(key)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("blob watcher error", "dir", s.dir, "error", err)
		}
	}
}

// blobKey maps a file in the store directory back to its key. Temp files
// written by Put are skipped; the rename that follows reports the blob.
func blobKey(name string) (string, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}
