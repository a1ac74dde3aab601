package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actlog-project/actlog/pkg/model"
)

func TestFileRecord_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec, err := model.FileRecord("ev-1", ts, model.FileEventData{
		Type:    model.FileCreated,
		Path:    "/tmp/new_script.py",
		Content: "print('test')\n",
	})
	require.NoError(t, err)

	line, err := json.Marshal(rec)
	require.NoError(t, err)

	// Every line must carry the required top-level keys.
	var generic map[string]any
	require.NoError(t, json.Unmarshal(line, &generic))
	assert.Contains(t, generic, "event")
	assert.Contains(t, generic, "data")
	assert.Contains(t, generic, "timestamp")

	var decoded model.Record
	require.NoError(t, json.Unmarshal(line, &decoded))
	assert.Equal(t, model.KindFileEvent, decoded.Event)

	data, err := decoded.FileData()
	require.NoError(t, err)
	assert.Equal(t, model.FileCreated, data.Type)
	assert.Equal(t, "/tmp/new_script.py", data.Path)
	assert.Equal(t, "print('test')\n", data.Content)
}

func TestFileRecord_DeleteOmitsContent(t *testing.T) {
	rec, err := model.FileRecord("ev-2", time.Now().UTC(), model.FileEventData{
		Type: model.FileDeleted,
		Path: "/tmp/gone.go",
	})
	require.NoError(t, err)

	assert.NotContains(t, string(rec.Data), "content")
	assert.NotContains(t, string(rec.Data), "related")
}

func TestAppRecord_Payload(t *testing.T) {
	rec, err := model.AppRecord("ev-3", time.Now().UTC(), model.AppEventData{
		Type:     model.AppSwitch,
		Name:     "Terminal",
		BundleID: "com.apple.Terminal",
		Path:     "/System/Applications/Utilities/Terminal.app",
	})
	require.NoError(t, err)

	data, err := rec.AppData()
	require.NoError(t, err)
	assert.Equal(t, model.AppSwitch, data.Type)
	assert.Equal(t, "com.apple.Terminal", data.BundleID)
}

func TestValidRiskLevel(t *testing.T) {
	for _, lvl := range []model.RiskLevel{model.RiskCritical, model.RiskHigh, model.RiskMedium, model.RiskLow} {
		assert.True(t, model.ValidRiskLevel(lvl))
	}
	assert.False(t, model.ValidRiskLevel("Severe"))
	assert.False(t, model.ValidRiskLevel(""))
}
