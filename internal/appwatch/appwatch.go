// Package appwatch observes the frontmost application and emits an
// event when its identity changes.
package appwatch

import (
	"context"
	"time"

	"github.com/actlog-project/actlog/pkg/logging"
	"github.com/actlog-project/actlog/pkg/model"
)

// AppInfo identifies a running application.
type AppInfo struct {
	Name     string
	BundleID string
	Path     string
}

// Provider reports the currently frontmost application. The darwin
// implementation asks the window server; other platforms return
// errclass.ErrAppWatchUnsupported.
type Provider interface {
	Frontmost(ctx context.Context) (AppInfo, error)
}

// Event is one application observation worth logging.
type Event struct {
	Data model.AppEventData
	Time time.Time
}

// EmitFunc receives poll results that changed identity.
type EmitFunc func(Event)

// Poller polls a Provider at a fixed interval. The first successful
// observation is emitted once as "current"; afterwards an event is
// emitted if and only if the bundle identifier differs from the
// previous observation.
type Poller struct {
	provider Provider
	interval time.Duration
	log      *logging.Logger

	seen bool
	last string
}

// NewPoller creates a poller.
func NewPoller(provider Provider, interval time.Duration, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.NewLogger(logging.LevelInfo)
	}
	return &Poller{provider: provider, interval: interval, log: logger}
}

// Run polls until ctx is cancelled. Provider errors are logged and the
// poll is skipped; the loop keeps running.
func (p *Poller) Run(ctx context.Context, emit EmitFunc) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx, emit)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx, emit)
		}
	}
}

func (p *Poller) poll(ctx context.Context, emit EmitFunc) {
	info, err := p.provider.Frontmost(ctx)
	if err != nil {
		p.log.Warn("frontmost app poll failed", map[string]any{"error": err.Error()})
		return
	}

	changeType := model.AppSwitch
	if !p.seen {
		changeType = model.AppCurrent
	} else if info.BundleID == p.last {
		return
	}
	p.seen = true
	p.last = info.BundleID

	emit(Event{
		Data: model.AppEventData{
			Type:     changeType,
			Name:     info.Name,
			BundleID: info.BundleID,
			Path:     info.Path,
		},
		Time: time.Now().UTC(),
	})
}
