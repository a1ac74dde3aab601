// Package doctor runs environment checks for the monitoring setup.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/actlog-project/actlog/internal/analysis"
	"github.com/actlog-project/actlog/internal/appwatch"
	"github.com/actlog-project/actlog/pkg/config"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one problem a check discovered.
type Finding struct {
	Severity    Severity `json:"severity"`
	Check       string   `json:"check"`
	Description string   `json:"description"`
}

// Report is the outcome of a doctor run. Healthy means no findings of
// severity error; warnings alone leave the setup usable.
type Report struct {
	Checks   int       `json:"checks"`
	Findings []Finding `json:"findings"`
}

// Healthy reports whether no error-level finding was recorded.
func (r Report) Healthy() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

func (r *Report) add(severity Severity, check, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity:    severity,
		Check:       check,
		Description: fmt.Sprintf(format, args...),
	})
}

// Run checks the configured watch paths, the journal directory, the
// application provider, and the analysis endpoint when enabled.
func Run(ctx context.Context, cfg *config.Config) Report {
	var rep Report

	rep.Checks++
	paths, err := cfg.WatchPaths()
	if err != nil {
		rep.add(SeverityError, "watch-paths", "cannot resolve watch paths: %v", err)
	} else {
		usable := 0
		for _, p := range paths {
			info, err := os.Stat(p)
			switch {
			case err != nil:
				rep.add(SeverityWarning, "watch-paths", "watch path does not exist: %s", p)
			case !info.IsDir():
				rep.add(SeverityWarning, "watch-paths", "watch path is not a directory: %s", p)
			default:
				usable++
			}
		}
		if usable == 0 {
			rep.add(SeverityError, "watch-paths", "no usable watch paths configured")
		}
	}

	rep.Checks++
	checkLogDir(&rep, cfg.Log.Dir)

	rep.Checks++
	if cfg.App.Enabled {
		if _, err := appwatch.NewProvider(); err != nil {
			rep.add(SeverityWarning, "app-watch", "application watching unavailable: %v", err)
		}
		if _, err := cfg.PollInterval(); err != nil {
			rep.add(SeverityError, "app-watch", "invalid poll interval: %v", err)
		}
	}

	rep.Checks++
	if cfg.Analysis.Enabled {
		checkAnalysis(ctx, &rep, cfg)
	}

	return rep
}

func checkLogDir(rep *Report, dir string) {
	if dir == "" {
		rep.add(SeverityError, "log-dir", "log directory is not configured")
		return
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		rep.add(SeverityError, "log-dir", "cannot create log directory %s: %v", dir, err)
		return
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok\n"), 0640); err != nil {
		rep.add(SeverityError, "log-dir", "log directory not writable: %v", err)
		return
	}
	os.Remove(probe)
}

func checkAnalysis(ctx context.Context, rep *Report, cfg *config.Config) {
	timeout, err := cfg.AnalysisTimeout()
	if err != nil {
		rep.add(SeverityError, "analysis", "invalid analysis timeout: %v", err)
		return
	}
	client := analysis.NewClient(analysis.Config{
		BaseURL: cfg.Analysis.BaseURL,
		Model:   cfg.Analysis.Model,
		Timeout: timeout,
	})
	if err := client.Ping(ctx); err != nil {
		rep.add(SeverityWarning, "analysis", "analysis endpoint unreachable: %v", err)
	}
}
