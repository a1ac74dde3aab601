package export

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/actlog-project/actlog/internal/journal"
	"github.com/actlog-project/actlog/pkg/errclass"
	"github.com/actlog-project/actlog/pkg/logging"
)

const (
	// maxLineSize matches the journal reader's bound.
	maxLineSize = 4 << 20

	initialBackoff = 500 * time.Millisecond
)

// Options configures an export run.
type Options struct {
	// Dir is the journal directory.
	Dir       string
	Sender    Sender
	BatchSize int
	// MaxRetries is the number of delivery attempts per batch.
	MaxRetries int
	Logger     *logging.Logger
}

// Result summarizes one export run.
type Result struct {
	Category journal.Category `json:"category"`
	Batches  int              `json:"batches"`
	Records  int              `json:"records"`
	// Skipped counts lines that were not valid JSON.
	Skipped int   `json:"skipped"`
	Offset  int64 `json:"offset"`
}

// Exporter ships new journal lines to a collector, committing the
// cursor after each delivered batch so an interrupted run resumes
// without resending.
type Exporter struct {
	dir        string
	sender     Sender
	cursor     *Cursor
	batchSize  int
	maxRetries int
	log        *logging.Logger
}

// New creates an exporter for the journals under opts.Dir.
func New(opts Options) *Exporter {
	size := opts.BatchSize
	if size <= 0 {
		size = 100
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 5
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger(logging.LevelInfo)
	}
	return &Exporter{
		dir:        opts.Dir,
		sender:     opts.Sender,
		cursor:     NewCursor(opts.Dir),
		batchSize:  size,
		maxRetries: retries,
		log:        log,
	}
}

// Run exports the lines of category written since the last committed
// offset. A journal shorter than the stored offset has been rotated or
// truncated; the export then starts from the beginning.
func (e *Exporter) Run(ctx context.Context, category journal.Category) (Result, error) {
	res := Result{Category: category}
	path := filepath.Join(e.dir, category.Filename())

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return res, nil
	}
	if err != nil {
		return res, errclass.ErrExportFailed.WithMessagef("open journal: %v", err)
	}
	defer f.Close()

	offset := e.cursor.Offset(category)
	if info, err := f.Stat(); err == nil && offset > info.Size() {
		e.log.Warn("journal shorter than stored offset, restarting export", map[string]any{
			"category": string(category),
			"offset":   offset,
		})
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return res, errclass.ErrExportFailed.WithMessagef("seek journal: %v", err)
	}
	res.Offset = offset

	var batch []json.RawMessage
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		b := Batch{
			ID:       uuid.NewString(),
			Category: category,
			Count:    len(batch),
			Records:  batch,
		}
		if err := e.deliver(ctx, b); err != nil {
			return err
		}
		if err := e.cursor.Commit(category, res.Offset); err != nil {
			return err
		}
		res.Batches++
		res.Records += len(batch)
		batch = nil
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		line := scanner.Bytes()
		res.Offset += int64(len(line)) + 1

		if !json.Valid(line) {
			res.Skipped++
			continue
		}
		batch = append(batch, json.RawMessage(append([]byte(nil), line...)))
		if len(batch) >= e.batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return res, errclass.ErrExportFailed.WithMessagef("read journal: %v", err)
	}
	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}

// deliver sends one batch, retrying with doubling backoff.
func (e *Exporter) deliver(ctx context.Context, batch Batch) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		err = e.sender.Send(ctx, batch)
		if err == nil {
			return nil
		}
		if attempt == e.maxRetries {
			break
		}
		e.log.Warn("batch delivery failed, retrying", map[string]any{
			"sender":   e.sender.Name(),
			"batch_id": batch.ID,
			"attempt":  attempt,
			"backoff":  backoff.String(),
			"error":    err.Error(),
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
