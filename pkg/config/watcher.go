package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a configuration file into a Store when it changes.
//
// The parent directory is watched so that editors which replace the file
// (write to a temp file, then rename) are picked up. A change that fails to
// load leaves the previous snapshot in place and is logged.
type Watcher struct {
	path     string
	load     func(path string) (Config, error)
	store    *Store
	logger   *slog.Logger
	onReload []func(Config)

	fsw       *fsnotify.Watcher
	closeOnce sync.Once
}

// NewWatcher creates a Watcher for path. On every change load resolves the
// configuration again; callers that layer their own overrides on top of the
// file pass a load that re-applies them. A nil load uses Load.
// Each successful reload is stored in store and then passed to every
// onReload callback. A nil logger uses slog.Default().
func NewWatcher(path string, load func(path string) (Config, error), store *Store, logger *slog.Logger, onReload ...func(Config)) (*Watcher, error) {
	if load == nil {
		load = Load
	}
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:     abs,
		load:     load,
		store:    store,
		logger:   logger.With(slog.String("component", "config-watcher"), slog.String("file", abs)),
		onReload: onReload,
		fsw:      fsw,
	}, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := w.Reload(); err != nil {
				w.logger.Warn("config reload failed, keeping previous configuration", slog.Any("error", err))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watch error", slog.Any("error", err))
		}
	}
}

// Reload loads the file now and publishes it on success.
func (w *Watcher) Reload() error {
	cfg, err := w.load(w.path)
	if err != nil {
		return err
	}

	prev := w.store.Swap(cfg)
	w.logger.Info("config reloaded",
		slog.Bool("enabled", cfg.Enabled),
		slog.String("level", cfg.Level.String()),
		slog.String("previous_level", prev.Level.String()),
		slog.Int("operations", len(cfg.Operations)))

	for _, fn := range w.onReload {
		fn(cfg.Clone())
	}
	return nil
}

// Close stops watching. It is safe to call Close multiple times.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}
