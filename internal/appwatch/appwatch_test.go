package appwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actlog-project/actlog/pkg/model"
)

// scriptedProvider returns a fixed sequence of observations, repeating
// the last one once the script runs out.
type scriptedProvider struct {
	script []AppInfo
	errs   []error
	calls  int
}

func (s *scriptedProvider) Frontmost(_ context.Context) (AppInfo, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return AppInfo{}, s.errs[i]
	}
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	return s.script[i], nil
}

func collect(t *testing.T, p *Poller, polls int) []Event {
	t.Helper()
	var events []Event
	emit := func(ev Event) { events = append(events, ev) }
	for i := 0; i < polls; i++ {
		p.poll(context.Background(), emit)
	}
	return events
}

func app(name, bundle string) AppInfo {
	return AppInfo{Name: name, BundleID: bundle, Path: "/Applications/" + name + ".app"}
}

func TestPoller_FirstObservationIsCurrent(t *testing.T) {
	provider := &scriptedProvider{script: []AppInfo{app("Terminal", "com.apple.Terminal")}}
	p := NewPoller(provider, time.Second, nil)

	events := collect(t, p, 1)
	require.Len(t, events, 1)
	assert.Equal(t, model.AppCurrent, events[0].Data.Type)
	assert.Equal(t, "Terminal", events[0].Data.Name)
	assert.Equal(t, "com.apple.Terminal", events[0].Data.BundleID)
}

func TestPoller_NoEventWithoutChange(t *testing.T) {
	provider := &scriptedProvider{script: []AppInfo{app("Terminal", "com.apple.Terminal")}}
	p := NewPoller(provider, time.Second, nil)

	events := collect(t, p, 5)
	assert.Len(t, events, 1) // only the initial "current"
}

func TestPoller_SwitchOnIdentityChange(t *testing.T) {
	provider := &scriptedProvider{script: []AppInfo{
		app("Terminal", "com.apple.Terminal"),
		app("Terminal", "com.apple.Terminal"),
		app("Safari", "com.apple.Safari"),
		app("Safari", "com.apple.Safari"),
		app("Terminal", "com.apple.Terminal"),
	}}
	p := NewPoller(provider, time.Second, nil)

	events := collect(t, p, 5)
	require.Len(t, events, 3)
	assert.Equal(t, model.AppCurrent, events[0].Data.Type)
	assert.Equal(t, model.AppSwitch, events[1].Data.Type)
	assert.Equal(t, "Safari", events[1].Data.Name)
	assert.Equal(t, model.AppSwitch, events[2].Data.Type)
	assert.Equal(t, "Terminal", events[2].Data.Name)
}

func TestPoller_ErrorSkipsPoll(t *testing.T) {
	provider := &scriptedProvider{
		script: []AppInfo{app("Terminal", "com.apple.Terminal")},
		errs:   []error{errors.New("window server unavailable")},
	}
	p := NewPoller(provider, time.Second, nil)

	events := collect(t, p, 2)
	// First poll errored, the second produced the initial observation.
	require.Len(t, events, 1)
	assert.Equal(t, model.AppCurrent, events[0].Data.Type)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	provider := &scriptedProvider{script: []AppInfo{app("Terminal", "com.apple.Terminal")}}
	p := NewPoller(provider, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, func(Event) {}) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestParseLsappinfo(t *testing.T) {
	out := `"LSDisplayName"="Terminal"
"CFBundleIdentifier"="com.apple.Terminal"
"LSBundlePath"="/System/Applications/Utilities/Terminal.app"
`
	info := parseLsappinfo(out)
	assert.Equal(t, "Terminal", info.Name)
	assert.Equal(t, "com.apple.Terminal", info.BundleID)
	assert.Equal(t, "/System/Applications/Utilities/Terminal.app", info.Path)
}

func TestParseLsappinfo_Empty(t *testing.T) {
	info := parseLsappinfo("")
	assert.Empty(t, info.Name)
	assert.Empty(t, info.BundleID)
}

func TestParseFrontASN(t *testing.T) {
	assert.Equal(t, `ASN:0x0-0x1a2b3-:`, parseFrontASN("ASN:0x0-0x1a2b3-:\n"))
	assert.Empty(t, parseFrontASN("  \n"))
}
