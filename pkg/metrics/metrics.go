// Package metrics provides in-process counters for the monitoring loops.
package metrics

import "sync/atomic"

// Registry holds all actlog counters.
type Registry struct {
	fileEvents   atomic.Int64
	fileSkipped  atomic.Int64
	appSwitches  atomic.Int64
	written      atomic.Int64
	writeErrors  atomic.Int64
	analyses     atomic.Int64
	analysisErrs atomic.Int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RecordFileEvent counts a qualifying file event.
func (r *Registry) RecordFileEvent() { r.fileEvents.Add(1) }

// RecordFileSkipped counts a notification filtered out by extension or skip-list.
func (r *Registry) RecordFileSkipped() { r.fileSkipped.Add(1) }

// RecordAppSwitch counts an application switch.
func (r *Registry) RecordAppSwitch() { r.appSwitches.Add(1) }

// RecordWrite counts one journal append, successful or not.
func (r *Registry) RecordWrite(err error) {
	if err != nil {
		r.writeErrors.Add(1)
		return
	}
	r.written.Add(1)
}

// RecordAnalysis counts one analysis call, successful or not.
func (r *Registry) RecordAnalysis(err error) {
	if err != nil {
		r.analysisErrs.Add(1)
		return
	}
	r.analyses.Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	FileEvents     int64 `json:"file_events"`
	FileSkipped    int64 `json:"file_skipped"`
	AppSwitches    int64 `json:"app_switches"`
	RecordsWritten int64 `json:"records_written"`
	WriteErrors    int64 `json:"write_errors"`
	Analyses       int64 `json:"analyses"`
	AnalysisErrors int64 `json:"analysis_errors"`
}

// Read returns a snapshot of the current counter values.
func (r *Registry) Read() Snapshot {
	return Snapshot{
		FileEvents:     r.fileEvents.Load(),
		FileSkipped:    r.fileSkipped.Load(),
		AppSwitches:    r.appSwitches.Load(),
		RecordsWritten: r.written.Load(),
		WriteErrors:    r.writeErrors.Load(),
		Analyses:       r.analyses.Load(),
		AnalysisErrors: r.analysisErrs.Load(),
	}
}
