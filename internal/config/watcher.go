package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger is the logging surface the watcher needs.
type Logger interface {
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
}

// Watcher reloads the settings file when it changes on disk and hands
// the parsed result to a callback. Editors often replace files via
// rename, so the parent directory is watched and events filtered by
// name; writes are debounced before reloading.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	onChange func(*Settings)
	logger   Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the settings file at path.
// onChange runs on the watcher goroutine with each successfully parsed
// reload; invalid intermediate states are logged and skipped.
func NewWatcher(path string, logger Logger, onChange func(*Settings)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		fsw:      fsw,
		path:     abs,
		onChange: onChange,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Run delivers reloads until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(w.debounce)
			} else {
				pending.Reset(w.debounce)
			}
			fire = pending.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("config watcher: %v", err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("config reload skipped: %v", err)
		}
		return
	}
	if w.logger != nil {
		w.logger.Info("config reloaded from %s", w.path)
	}
	w.onChange(s)
}
