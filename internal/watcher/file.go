package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = time.Second

// WatchFile calls onChange after path gets written, created, renamed or
// removed, at most once per debounce. The parent dir is watched, so the file
// doesn't need to exist yet, and editors replacing the file are covered.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	if path == "" {
		<-ctx.Done()
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	path = filepath.Clean(path)
	key := func(event fsnotify.Event) (string, bool) {
		return path, filepath.Clean(event.Name) == path && event.Op != fsnotify.Chmod
	}

	return debounceEvents(ctx, w, key, func([]string) { onChange() })
}

// debounceEvents reads w until ctx is done. Events are mapped by key, and
// dropped when it returns false. onChange gets the unique keys collected
// since the first event of each debounce window.
func debounceEvents(
	ctx context.Context, w *fsnotify.Watcher, key func(fsnotify.Event) (string, bool),
	onChange func(keys []string),
) error {
	var (
		keys []string
		fire <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			k, ok := key(event)
			if !ok {
				continue
			}
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
			if fire == nil {
				fire = time.After(debounce)
			}

		case <-fire:
			changed := keys
			keys, fire = nil, nil
			onChange(changed)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
