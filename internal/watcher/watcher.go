// Package watcher observes directory trees for file changes and emits
// filtered file events.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/actlog-project/actlog/pkg/errclass"
	"github.com/actlog-project/actlog/pkg/logging"
	"github.com/actlog-project/actlog/pkg/model"
	"github.com/actlog-project/actlog/pkg/pathutil"
)

// Options configures a Watcher.
type Options struct {
	Roots       []string
	Extensions  []string
	SkipDirs    []string
	MinFileSize int64
	MaxFileSize int64
	Logger      *logging.Logger
}

// Event is one qualifying file change, tagged with the watched root
// that produced it.
type Event struct {
	Data model.FileEventData
	Root string
	Time time.Time
}

// EmitFunc receives events from the watch loop, one call per OS
// notification. It runs on the loop goroutine; a blocking handler
// blocks observation, which matches the synchronous analysis model.
type EmitFunc func(Event)

// SkipFunc, when set, is told about notifications that were filtered out.
type SkipFunc func(path string)

// Watcher watches a set of roots recursively.
type Watcher struct {
	opts   Options
	fs     *fsnotify.Watcher
	roots  []string
	log    *logging.Logger
	OnSkip SkipFunc
}

// New creates a watcher for the existing roots in opts. Roots that do
// not exist are skipped with a warning; at least one must remain.
func New(opts Options) (*Watcher, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger(logging.LevelInfo)
	}

	var roots []string
	for _, root := range opts.Roots {
		if err := pathutil.ValidateWatchPath(root); err != nil {
			log.Warn("skipping watch path", map[string]any{"path": root, "reason": err.Error()})
			continue
		}
		roots = append(roots, filepath.Clean(root))
	}
	if len(roots) == 0 {
		return nil, errclass.ErrWatchFailed.WithMessage("no watchable paths")
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errclass.ErrWatchFailed.WithMessagef("create watcher: %v", err)
	}

	w := &Watcher{opts: opts, fs: fs, roots: roots, log: log}
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			fs.Close()
			return nil, err
		}
		log.Info("watching", map[string]any{"path": root})
	}
	return w, nil
}

// Roots returns the roots actually being watched.
func (w *Watcher) Roots() []string { return w.roots }

// Close releases the underlying OS watches.
func (w *Watcher) Close() error { return w.fs.Close() }

// addTree registers root and every non-skipped subdirectory.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("walk error", map[string]any{"path": path, "error": err.Error()})
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && pathutil.IsSkipped(path, w.opts.SkipDirs) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return errclass.ErrWatchFailed.WithMessagef("watch %s: %v", path, err)
		}
		return nil
	})
}

// Run processes OS notifications until ctx is cancelled. Each
// qualifying notification produces exactly one emit call.
func (w *Watcher) Run(ctx context.Context, emit EmitFunc) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.ErrorErr("watch error", err)

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev, emit)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event, emit EmitFunc) {
	path := filepath.Clean(ev.Name)

	// New directories join the watch; no record is logged for them.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !pathutil.IsSkipped(path, w.opts.SkipDirs) {
				if err := w.addTree(path); err != nil {
					w.log.ErrorErr("watch new directory", err)
				}
			}
			return
		}
	}

	changeType, ok := changeTypeOf(ev.Op)
	if !ok {
		return
	}
	if pathutil.IsSkipped(path, w.opts.SkipDirs) || !pathutil.HasTrackedExtension(path, w.opts.Extensions) {
		if w.OnSkip != nil {
			w.OnSkip(path)
		}
		return
	}

	data := model.FileEventData{Type: changeType, Path: path}
	if changeType != model.FileDeleted {
		content, ok := w.readContent(path)
		if !ok {
			return
		}
		data.Content = content
	}

	emit(Event{Data: data, Root: w.rootFor(path), Time: time.Now().UTC()})
}

// readContent reads the file best-effort within the configured size
// bounds. Too-small and too-large files produce no record at all.
func (w *Watcher) readContent(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		// The file may already be gone; nothing to log.
		w.log.Debug("stat after change", map[string]any{"path": path, "error": err.Error()})
		return "", false
	}
	size := info.Size()
	if w.opts.MinFileSize > 0 && size < w.opts.MinFileSize {
		return "", false
	}
	if w.opts.MaxFileSize > 0 && size > w.opts.MaxFileSize {
		return "", false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		w.log.Debug("read after change", map[string]any{"path": path, "error": err.Error()})
		return "", false
	}
	return string(content), true
}

func (w *Watcher) rootFor(path string) string {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

func changeTypeOf(op fsnotify.Op) (model.FileChangeType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return model.FileCreated, true
	case op.Has(fsnotify.Write):
		return model.FileModified, true
	// A rename notification arrives for the old path, so it reads as a
	// deletion; the new path arrives as a separate create.
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return model.FileDeleted, true
	}
	return "", false
}
