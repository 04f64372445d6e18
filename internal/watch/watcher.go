// Package watch re-checks source files as they are saved.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/andyballingall/clang-checks/internal/fs"
	"github.com/andyballingall/clang-checks/internal/repo"
)

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

// Handler is called, one file at a time, for every change the Watcher reports.
// Returning an error stops the watch.
type Handler func(ctx context.Context, c repo.Change) error

// Watcher monitors a repository for edits to files which pass a filter.
type Watcher struct {
	root     string
	filter   repo.Filter
	skip     map[string]bool
	logger   *slog.Logger
	Ready    chan struct{}
	Debounce time.Duration

	newWatcher func() (*fsnotify.Watcher, error)
}

// New creates a Watcher for the tree at root. Directories starting with a dot
// and the skipDirs are not watched.
func New(root string, filter repo.Filter, skipDirs []string, logger *slog.Logger) *Watcher {
	skip := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		skip[filepath.Clean(d)] = true
	}
	return &Watcher{
		root:       filepath.Clean(root),
		filter:     filter,
		skip:       skip,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		Debounce:   DefaultDebounce,
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch blocks until ctx is cancelled or handle fails. Events arriving for the
// same file within the debounce period are coalesced into a single call.
func (w *Watcher) Watch(ctx context.Context, handle Handler) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err = w.addRecursive(watcher, w.root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", w.root)
	if w.Ready != nil {
		close(w.Ready)
	}

	changes := make(chan repo.Change)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.produce(gctx, watcher, changes)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case c := <-changes:
				if err := handle(gctx, c); err != nil {
					return err
				}
			}
		}
	})
	return g.Wait()
}

// produce turns raw fsnotify events into debounced changes.
func (w *Watcher) produce(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- repo.Change) error {
	pending := make(map[string]*time.Timer)
	fired := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := w.handleEvent(watcher, event)
			if path == "" {
				continue
			}
			if t := pending[path]; t != nil {
				t.Stop()
			}
			pending[path] = time.AfterFunc(w.Debounce, func() {
				select {
				case fired <- path:
				case <-ctx.Done():
				}
			})
		case path := <-fired:
			delete(pending, path)
			c, ok := w.change(path)
			if !ok {
				continue
			}
			select {
			case changes <- c:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to
// the watcher; the path of a written file is returned.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return ""
		}
	}

	return event.Name
}

// change maps a written path to a Change, if it still exists and passes the filter.
func (w *Watcher) change(path string) (repo.Change, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return repo.Change{}, false
	}
	rel, err := fs.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return repo.Change{}, false
	}
	rel = filepath.ToSlash(rel)
	if !w.filter.Match(rel) {
		w.logger.Debug("ignoring change", "file", rel)
		return repo.Change{}, false
	}
	return repo.Change{Path: path, RelPath: rel}, true
}

// addRecursive adds the given path and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != w.root && (strings.HasPrefix(filepath.Base(path), ".") || w.skip[filepath.Clean(path)]) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
