package settings

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pixil98/go-arena/internal/session"
)

const DefaultDebounce = 100 * time.Millisecond

// Dispatcher is the part of a session the watcher feeds.
type Dispatcher interface {
	Dispatch(ctx context.Context, actions ...session.Action) error
}

// Watcher reloads a settings file whenever it changes on disk and applies it
// to the session. Invalid edits are logged and skipped.
type Watcher struct {
	path     string
	sessions Dispatcher
	debounce time.Duration
	ready    chan struct{}
}

func NewWatcher(path string, sessions Dispatcher) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		sessions: sessions,
		debounce: DefaultDebounce,
		ready:    make(chan struct{}),
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	// Watch the directory; editors often replace the file rather than write it.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}
	close(w.ready)
	slog.InfoContext(ctx, "watching settings", "path", w.path)

	// changes are applied once the file has been quiet for the debounce period
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fire:
			fire = nil
			w.reload(ctx)
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "settings watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	patch, err := LoadFile(w.path)
	if err != nil {
		slog.WarnContext(ctx, "ignoring settings change", "path", w.path, "error", err)
		return
	}
	if patch.Empty() {
		return
	}

	err = w.sessions.Dispatch(ctx, session.UpdateSettings{Patch: patch})
	if err != nil {
		slog.WarnContext(ctx, "applying settings", "error", err)
		return
	}
	slog.InfoContext(ctx, "settings reloaded", "path", w.path)
}
