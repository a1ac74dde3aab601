package monitor

import (
	"context"

	"github.com/actlog-project/actlog/internal/analysis"
	"github.com/actlog-project/actlog/internal/journal"
	"github.com/actlog-project/actlog/pkg/model"
)

// Handler consumes normalized event records. Log writing and analysis
// are handlers so they stay independent of the OS-level watching
// mechanism producing the records.
type Handler interface {
	Name() string
	Handle(ctx context.Context, rec model.Record) error
}

// JournalSink appends each record to its category log.
type JournalSink struct {
	files *journal.Writer
	apps  *journal.Writer
}

// NewJournalSink creates a sink writing under dir.
func NewJournalSink(dir string) *JournalSink {
	return &JournalSink{
		files: journal.NewWriter(dir, journal.CategoryFiles),
		apps:  journal.NewWriter(dir, journal.CategoryApps),
	}
}

func (s *JournalSink) Name() string { return "journal" }

func (s *JournalSink) Handle(_ context.Context, rec model.Record) error {
	if rec.Event == model.KindAppEvent {
		return s.apps.Append(rec)
	}
	return s.files.Append(rec)
}

// AnalysisHandler forwards file-change payloads to the inference
// endpoint and appends the classification to the analysis log. App
// events and content-less file events pass through untouched.
type AnalysisHandler struct {
	client *analysis.Client
	out    *journal.Writer
}

// NewAnalysisHandler creates a handler writing to llm_analysis.log under dir.
func NewAnalysisHandler(client *analysis.Client, dir string) *AnalysisHandler {
	return &AnalysisHandler{
		client: client,
		out:    journal.NewWriter(dir, journal.CategoryAnalysis),
	}
}

func (h *AnalysisHandler) Name() string { return "analysis" }

func (h *AnalysisHandler) Handle(ctx context.Context, rec model.Record) error {
	if rec.Event != model.KindFileEvent {
		return nil
	}
	data, err := rec.FileData()
	if err != nil {
		return err
	}
	if data.Content == "" {
		return nil
	}

	result, err := h.client.Analyze(ctx, rec.ID, data)
	if err != nil {
		return err
	}
	return h.out.Append(result)
}
