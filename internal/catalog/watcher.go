package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"booklog/internal/log"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog when its data file changes.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *log.Logger
}

// NewWatcher watches path and calls onChange after writes settle.
func NewWatcher(path string, debounce time.Duration, onChange func(ctx context.Context), logger *log.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		logger:   logger.WithComponent(log.ComponentWatcher),
	}
}

// WatchCatalog reloads c whenever path changes.
func WatchCatalog(c *Catalog, path string, logger *log.Logger) *Watcher {
	return NewWatcher(path, DefaultDebounce, func(ctx context.Context) {
		c.Reload(ctx, "file changed")
	}, logger)
}

// Run blocks until ctx is done. The parent directory is watched so that
// files replaced by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.InfoContext(ctx, "Watching data file", log.FieldPath, w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.DebugContext(ctx, "Data file event", log.FieldEvent, ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "Watcher error", log.FieldError, err)
		case <-timer.C:
			w.onChange(ctx)
		}
	}
}
