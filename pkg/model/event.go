// Package model defines the event record types shared across actlog.
package model

import (
	"encoding/json"
	"time"
)

// EventKind identifies the category of an observed occurrence.
type EventKind string

const (
	KindFileEvent EventKind = "file_event"
	KindAppEvent  EventKind = "app_event"
)

// FileChangeType identifies what happened to a watched file.
type FileChangeType string

const (
	FileCreated  FileChangeType = "created"
	FileModified FileChangeType = "modified"
	FileDeleted  FileChangeType = "deleted"
)

// AppChangeType identifies the kind of application observation.
type AppChangeType string

const (
	// AppSwitch is logged when the frontmost application changes.
	AppSwitch AppChangeType = "switch"
	// AppCurrent is logged once for the first observation after startup.
	AppCurrent AppChangeType = "current"
)

// Record is a single line in a category log (JSONL format).
// Each record is complete and independently parseable.
type Record struct {
	ID        string          `json:"id"`
	Event     EventKind       `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// FileEventData is the payload of a file_event record.
type FileEventData struct {
	Type    FileChangeType `json:"type"`
	Path    string         `json:"path"`
	Content string         `json:"content,omitempty"`
	Related []string       `json:"related,omitempty"`
}

// AppEventData is the payload of an app_event record.
type AppEventData struct {
	Type     AppChangeType `json:"type"`
	Name     string        `json:"name"`
	BundleID string        `json:"bundle_id"`
	Path     string        `json:"path"`
}

// FileRecord builds a file_event Record with the given ID and payload.
func FileRecord(id string, ts time.Time, data FileEventData) (Record, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Event: KindFileEvent, Data: raw, Timestamp: ts}, nil
}

// AppRecord builds an app_event Record with the given ID and payload.
func AppRecord(id string, ts time.Time, data AppEventData) (Record, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Event: KindAppEvent, Data: raw, Timestamp: ts}, nil
}

// FileData decodes the record payload as FileEventData.
func (r Record) FileData() (FileEventData, error) {
	var d FileEventData
	err := json.Unmarshal(r.Data, &d)
	return d, err
}

// AppData decodes the record payload as AppEventData.
func (r Record) AppData() (AppEventData, error) {
	var d AppEventData
	err := json.Unmarshal(r.Data, &d)
	return d, err
}
