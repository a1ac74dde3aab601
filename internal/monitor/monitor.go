// Package monitor composes the file and application watchers with the
// journal and analysis handlers.
package monitor

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/actlog-project/actlog/internal/analysis"
	"github.com/actlog-project/actlog/internal/appwatch"
	"github.com/actlog-project/actlog/internal/deps"
	"github.com/actlog-project/actlog/internal/watcher"
	"github.com/actlog-project/actlog/pkg/config"
	"github.com/actlog-project/actlog/pkg/logging"
	"github.com/actlog-project/actlog/pkg/metrics"
	"github.com/actlog-project/actlog/pkg/model"
)

// Options configures a monitoring run.
type Options struct {
	Config *config.Config
	// Paths overrides the configured watch paths when non-empty.
	Paths []string
	// Analyze force-enables the analysis forwarder.
	Analyze bool
	// NoApps disables application watching.
	NoApps bool
	// AppProvider overrides the platform provider, mainly for tests.
	AppProvider appwatch.Provider
	Logger      *logging.Logger
	Metrics     *metrics.Registry
}

// Monitor runs the two observation loops until cancelled. The loops
// are independent and write to separate logs; an error on a single
// event is logged and does not stop observation.
type Monitor struct {
	cfg      *config.Config
	log      *logging.Logger
	reg      *metrics.Registry
	watch    *watcher.Watcher
	poller   *appwatch.Poller
	handlers []Handler
	scanners map[string]*deps.Scanner
}

// New builds a monitor. Analysis is attached when enabled in config or
// forced by options; app watching degrades to a warning when the
// platform has no provider.
func New(opts Options) (*Monitor, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger(logging.ParseLevel(cfg.Logging.Level))
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	roots := opts.Paths
	if len(roots) == 0 {
		var err error
		roots, err = cfg.WatchPaths()
		if err != nil {
			return nil, err
		}
	}

	w, err := watcher.New(watcher.Options{
		Roots:       roots,
		Extensions:  cfg.Watch.Extensions,
		SkipDirs:    cfg.Watch.SkipDirs,
		MinFileSize: cfg.Watch.MinFileSize,
		MaxFileSize: cfg.Watch.MaxFileSize,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	w.OnSkip = func(string) { reg.RecordFileSkipped() }

	scanners := make(map[string]*deps.Scanner, len(w.Roots()))
	for _, root := range w.Roots() {
		scanners[root] = deps.NewScanner(root)
	}

	m := &Monitor{
		cfg:      cfg,
		log:      log,
		reg:      reg,
		watch:    w,
		scanners: scanners,
		handlers: []Handler{NewJournalSink(cfg.Log.Dir)},
	}

	if cfg.Analysis.Enabled || opts.Analyze {
		timeout, err := cfg.AnalysisTimeout()
		if err != nil {
			w.Close()
			return nil, err
		}
		client := analysis.NewClient(analysis.Config{
			BaseURL: cfg.Analysis.BaseURL,
			Model:   cfg.Analysis.Model,
			Timeout: timeout,
		})
		m.handlers = append(m.handlers, NewAnalysisHandler(client, cfg.Log.Dir))
		log.Info("analysis enabled", map[string]any{"endpoint": cfg.Analysis.BaseURL, "model": cfg.Analysis.Model})
	}

	if cfg.App.Enabled && !opts.NoApps {
		provider := opts.AppProvider
		var perr error
		if provider == nil {
			provider, perr = appwatch.NewProvider()
		}
		if perr != nil {
			log.Warn("application watching disabled", map[string]any{"reason": perr.Error()})
		} else {
			interval, err := cfg.PollInterval()
			if err != nil {
				w.Close()
				return nil, err
			}
			m.poller = appwatch.NewPoller(provider, interval, log)
		}
	}

	return m, nil
}

// Roots returns the watched roots.
func (m *Monitor) Roots() []string { return m.watch.Roots() }

// Close releases OS watches.
func (m *Monitor) Close() error { return m.watch.Close() }

// Run blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.watch.Run(ctx, func(ev watcher.Event) { m.onFileEvent(ctx, ev) })
	}()

	if m.poller != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.poller.Run(ctx, func(ev appwatch.Event) { m.onAppEvent(ctx, ev) })
		}()
	}

	wg.Wait()
	return ctx.Err()
}

func (m *Monitor) onFileEvent(ctx context.Context, ev watcher.Event) {
	m.reg.RecordFileEvent()

	if ev.Data.Content != "" {
		if scanner, ok := m.scanners[ev.Root]; ok {
			ev.Data.Related = scanner.Related(ev.Data.Path, []byte(ev.Data.Content))
		}
	}

	rec, err := model.FileRecord(uuid.NewString(), ev.Time, ev.Data)
	if err != nil {
		m.log.ErrorErr("build file record", err, map[string]any{"path": ev.Data.Path})
		return
	}
	m.log.Info("file event", map[string]any{
		"type": string(ev.Data.Type),
		"path": ev.Data.Path,
	})
	m.dispatch(ctx, rec)
}

func (m *Monitor) onAppEvent(ctx context.Context, ev appwatch.Event) {
	m.reg.RecordAppSwitch()

	rec, err := model.AppRecord(uuid.NewString(), ev.Time, ev.Data)
	if err != nil {
		m.log.ErrorErr("build app record", err, map[string]any{"app": ev.Data.Name})
		return
	}
	m.log.Info("app event", map[string]any{
		"type": string(ev.Data.Type),
		"name": ev.Data.Name,
	})
	m.dispatch(ctx, rec)
}

func (m *Monitor) dispatch(ctx context.Context, rec model.Record) {
	for _, h := range m.handlers {
		err := h.Handle(ctx, rec)
		switch h.Name() {
		case "journal":
			m.reg.RecordWrite(err)
		case "analysis":
			if fileHasContent(rec) {
				m.reg.RecordAnalysis(err)
			}
		}
		if err != nil {
			m.log.ErrorErr("handler failed", err, map[string]any{"handler": h.Name(), "event_id": rec.ID})
		}
	}
}

func fileHasContent(rec model.Record) bool {
	if rec.Event != model.KindFileEvent {
		return false
	}
	data, err := rec.FileData()
	return err == nil && data.Content != ""
}

// Summary returns the counter snapshot for the run, for the shutdown
// report.
func (m *Monitor) Summary() metrics.Snapshot { return m.reg.Read() }
