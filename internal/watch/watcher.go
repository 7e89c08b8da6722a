// Package watch re-runs verification when the artifact store or audit
// trail changes on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last event
// before re-running, so a burst of writes triggers one run.
const DefaultDebounce = 500 * time.Millisecond

// Runner is the action invoked after changes settle.
type Runner func(ctx context.Context) error

// Watcher debounces filesystem events over a set of directory trees.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	run      Runner
}

// New creates a watcher over the given directory trees. Missing roots are
// skipped; subdirectories are registered recursively since fsnotify watches
// are not recursive.
func New(roots []string, debounce time.Duration, run Runner) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	registered := 0
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		if err := addTree(fsw, root); err != nil {
			fsw.Close()
			return nil, err
		}
		registered++
	}
	if registered == 0 {
		fsw.Close()
		return nil, fmt.Errorf("none of the watch roots exist: %v", roots)
	}

	return &Watcher{watcher: fsw, debounce: debounce, run: run}, nil
}

// Run blocks, invoking the runner after each settled burst of events,
// until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// New directories must be registered to keep coverage.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addTree(w.watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.run(ctx); err != nil {
				return err
			}
		case <-w.watcher.Errors:
			// Keep watching.
		}
	}
}

// addTree registers a directory and every subdirectory under it.
func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
