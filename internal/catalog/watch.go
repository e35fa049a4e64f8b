package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watch reports changes to the set of deck directories. The channel receives
// a value whenever an entry directly under the root is created, removed or
// renamed, and is closed when ctx is done. The root is created if missing.
func (c *Catalog) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create decks root %s: %w", c.root, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(c.root); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", c.root, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				// Coalesce bursts; one pending notification is enough.
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.logger.Warn("decks root watch error", "root", c.root, "error", err)
			}
		}
	}()

	return changes, nil
}
