package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/actlog-project/actlog/internal/journal"
	"github.com/actlog-project/actlog/pkg/fsutil"
)

// Cursor remembers how far into a journal a collector has been fed,
// as a byte offset into the log file. Offsets are stored next to the
// journals so a truncated or rotated log starts over cleanly.
type Cursor struct {
	dir string
}

// NewCursor tracks export offsets for journals under dir.
func NewCursor(dir string) *Cursor {
	return &Cursor{dir: dir}
}

func (c *Cursor) path(category journal.Category) string {
	return filepath.Join(c.dir, fmt.Sprintf(".%s.export-offset", category))
}

// Offset returns the stored offset for category, or zero when none has
// been recorded or the stored value is unreadable.
func (c *Cursor) Offset(category journal.Category) int64 {
	data, err := os.ReadFile(c.path(category))
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Commit durably records offset for category.
func (c *Cursor) Commit(category journal.Category, offset int64) error {
	data := []byte(strconv.FormatInt(offset, 10) + "\n")
	return fsutil.AtomicWrite(c.path(category), data, 0640)
}

// Reset forgets the offset for category, so the next export ships the
// whole journal again.
func (c *Cursor) Reset(category journal.Category) error {
	err := os.Remove(c.path(category))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
