// Package watch provides continuous mirroring: filesystem-triggered and
// scheduled full re-mirrors of the course content tree.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/coursemirror/internal/logfields"
)

// Watcher monitors the source root for content changes and emits coalesced
// triggers after a debounce window. Every trigger is expected to result in a
// full mirror run; there is no per-file incremental handling.
type Watcher struct {
	root         string
	modulePrefix string
	excluded     map[string]struct{}
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	stopOnce     sync.Once
	triggerChan  chan struct{}
	debounceTime time.Duration
}

// NewWatcher creates a watcher over the source root. Directories on the
// exclusion denylist are not watched (dependency caches churn constantly and
// never affect the mirrored output).
func NewWatcher(root, modulePrefix string, exclude []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve source root: %w", err)
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	return &Watcher{
		root:         absRoot,
		modulePrefix: modulePrefix,
		excluded:     excluded,
		watcher:      fsw,
		stopChan:     make(chan struct{}),
		triggerChan:  make(chan struct{}, 1),
		debounceTime: debounce,
	}, nil
}

// Start registers watches and begins the event loop.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.Refresh(); err != nil {
		return err
	}

	slog.Info("Watching course content",
		logfields.Source(w.root),
		slog.Duration("debounce", w.debounceTime))

	go w.watchLoop(ctx)
	return nil
}

// Triggers returns the channel on which coalesced change triggers arrive.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggerChan
}

// Refresh re-registers watches for the root and every module subdirectory.
// Called at start and after each mirror run so directories created since the
// last run are picked up. fsnotify keeps already-registered paths, so
// re-adding is harmless.
func (w *Watcher) Refresh() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.watcher.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch source root %s: %w", w.root, err)
	}

	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // a directory vanished mid-walk; the next refresh will settle it
		}
		if !d.IsDir() || path == w.root {
			return nil
		}
		if _, skip := w.excluded[d.Name()]; skip {
			return filepath.SkipDir
		}
		// Only module trees are interesting at the top level.
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
		if !strings.HasPrefix(top, w.modulePrefix) {
			return filepath.SkipDir
		}
		if addErr := w.watcher.Add(path); addErr != nil {
			slog.Warn("Failed to watch directory", logfields.Path(path), logfields.Error(addErr))
		}
		return nil
	})
}

// Stop shuts down the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	})
}

// watchLoop debounces raw filesystem events into triggers.
func (w *Watcher) watchLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Source change detected",
				logfields.Path(event.Name),
				slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounceTime)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounceTime)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.triggerChan <- struct{}{}:
			default: // a trigger is already pending; coalesce
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// relevant filters out events in excluded directories and events on
// non-module entries at the root.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if !strings.HasPrefix(parts[0], w.modulePrefix) {
		return false
	}
	for _, part := range parts {
		if _, skip := w.excluded[part]; skip {
			return false
		}
	}
	return true
}
