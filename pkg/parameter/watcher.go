package parameter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig contains configuration for the parameter file watcher.
type WatcherConfig struct {
	// Path is the parameter directory to watch.
	Path string

	// DebounceInterval is the time to wait after the last change before
	// triggering a reload, preventing reload storms during bulk edits.
	// Default: 100ms.
	DebounceInterval time.Duration
}

// Watcher watches a parameter directory and triggers reloads when files
// change. Reloads are debounced.
type Watcher struct {
	watcher *fsnotify.Watcher
	config  WatcherConfig
	logger  *slog.Logger
}

// NewWatcher creates a watcher for the given parameter directory.
func NewWatcher(config WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fsWatcher,
		config:  config,
		logger:  logger.With("component", "parameter.watcher"),
	}, nil
}

// Watch blocks until the context is cancelled, calling onReload after each
// debounced batch of parameter file changes. The callback's error is logged,
// not propagated, so a bad intermediate save does not stop the watcher.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.config.Path, err)
	}

	w.logger.Info("parameter watcher started",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("parameter watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isRelevant(event) {
				continue
			}
			w.logger.Debug("parameter file changed", "op", event.Op.String(), "path", event.Name)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.config.DebounceInterval, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("parameter watcher error", "error", err)

		case <-reload:
			if err := onReload(); err != nil {
				w.logger.Error("parameter reload failed", "error", err)
			} else {
				w.logger.Info("parameters reloaded", "path", w.config.Path)
			}
		}
	}
}

// isRelevant filters events down to YAML file writes, creations and removals.
func isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}
