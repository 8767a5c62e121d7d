package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yeldir/leetbot/internal/logfields"
)

// Watcher monitors the configuration file and hands successfully reloaded
// configs to a callback. Only settings that are safe to change at runtime
// (currently the language policy) should be applied by the callback;
// structural settings like the window time require a restart.
type Watcher struct {
	configPath   string
	onReload     func(*Config)
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
}

// NewWatcher creates a watcher for configPath. onReload is invoked from the
// watcher goroutine with each valid reloaded config.
func NewWatcher(configPath string, onReload func(*Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &Watcher{
		configPath:   absPath,
		onReload:     onReload,
		watcher:      w,
		debounceTime: 2 * time.Second,
	}, nil
}

// Start begins monitoring. Watching the parent directory instead of the file
// itself survives editors that replace the file on save.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	slog.Info("Starting configuration watcher", logfields.Path(w.configPath))
	go w.watchLoop(ctx)
	return nil
}

// Stop closes the underlying file system watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.configPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Debounce rapid successive writes from editors.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.configPath)
	if err != nil {
		slog.Warn("Ignoring invalid config reload", logfields.Path(w.configPath), logfields.Error(err))
		return
	}
	slog.Info("Configuration reloaded", logfields.Path(w.configPath))
	w.onReload(cfg)
}
