// Package journal provides append-only JSONL event logs, one file per
// event category.
package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/actlog-project/actlog/pkg/errclass"
)

// Category identifies one event log.
type Category string

const (
	CategoryFiles    Category = "files"
	CategoryApps     Category = "apps"
	CategoryAnalysis Category = "analysis"
)

// Filename returns the log file name for the category.
func (c Category) Filename() string {
	switch c {
	case CategoryFiles:
		return "files.log"
	case CategoryApps:
		return "apps.log"
	case CategoryAnalysis:
		return "llm_analysis.log"
	}
	return string(c) + ".log"
}

// ParseCategory converts a CLI argument to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "files":
		return CategoryFiles, nil
	case "apps":
		return CategoryApps, nil
	case "analysis":
		return CategoryAnalysis, nil
	}
	return "", errclass.ErrConfigInvalid.WithMessagef("unknown log category: %s (want files, apps or analysis)", s)
}

// Writer appends records to a single JSONL log file. Records are
// immutable once written; the file is append-only.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates a writer for the category log under dir.
func NewWriter(dir string, category Category) *Writer {
	return &Writer{path: filepath.Join(dir, category.Filename())}
}

// Path returns the log file path.
func (w *Writer) Path() string { return w.path }

// Append marshals v and appends it as one line, creating parent
// directories if absent. The write is flock-guarded so concurrent
// actlog processes do not interleave lines.
func (w *Writer) Append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return errclass.ErrJournalWrite.WithMessagef("marshal record: %v", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return errclass.ErrJournalWrite.WithMessagef("create log dir: %v", err)
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errclass.ErrJournalWrite.WithMessagef("open %s: %v", w.path, err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return errclass.ErrJournalWrite.WithMessagef("flock %s: %v", w.path, err)
	}
	defer unlockFile(file)

	if _, err := file.Write(append(line, '\n')); err != nil {
		return errclass.ErrJournalWrite.WithMessagef("write %s: %v", w.path, err)
	}
	if err := file.Sync(); err != nil {
		return errclass.ErrJournalWrite.WithMessagef("sync %s: %v", w.path, err)
	}
	return nil
}
