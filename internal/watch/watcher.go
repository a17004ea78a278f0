// Package watch re-runs generation when source files change. Events are
// debounced so a burst of saves coalesces into one batch run.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docgen/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers a callback after filesystem changes settle.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	ignore   func(path string) bool
	run      func(ctx context.Context)
	logger   *slog.Logger
}

// New creates a watcher. ignore filters paths that must not trigger a run
// (generated documents, temp files); run is invoked after each debounced
// burst of events.
func New(debounce time.Duration, ignore func(string) bool, run func(ctx context.Context), logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{fsw: fsw, debounce: debounce, ignore: ignore, run: run, logger: logger}, nil
}

// Add watches dir and every directory below it. Dot-directories are skipped.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run blocks, dispatching debounced runs, until ctx is canceled or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var pending <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignore(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.Add(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", logfields.File(event.Name), logfields.Error(err))
					}
				}
			}
			w.logger.Debug("source change detected", logfields.File(event.Name))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				// Drain a fired-but-unconsumed tick before Reset, otherwise
				// the stale tick triggers a premature run.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", logfields.Error(err))

		case <-pending:
			timer = nil
			pending = nil
			w.run(ctx)
		}
	}
}
