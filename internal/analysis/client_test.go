package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actlog-project/actlog/pkg/errclass"
	"github.com/actlog-project/actlog/pkg/model"
)

func chatServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyze_ParsesRisk(t *testing.T) {
	reply := `This script executes user input via a shell, a classic injection pattern.
{"risk_level": "High", "confidence": 0.87, "rationale": "unsanitized input reaches subprocess"}`
	srv := chatServer(t, reply, http.StatusOK)

	c := NewClient(Config{BaseURL: srv.URL, Model: "test-model"})
	rec, err := c.Analyze(context.Background(), "ev-1", model.FileEventData{
		Type:    model.FileCreated,
		Path:    "/tmp/run.py",
		Content: "import subprocess\nsubprocess.call(user_input, shell=True)\n",
	})
	require.NoError(t, err)

	assert.Equal(t, "ev-1", rec.EventID)
	assert.Equal(t, "/tmp/run.py", rec.Path)
	assert.Contains(t, rec.Analysis, "injection pattern")
	require.NotNil(t, rec.Risk)
	assert.Equal(t, model.RiskHigh, rec.Risk.RiskLevel)
	assert.InDelta(t, 0.87, rec.Risk.Confidence, 1e-9)
	assert.Equal(t, "unsanitized input reaches subprocess", rec.Risk.Rationale)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestAnalyze_NoRiskObjectKeepsText(t *testing.T) {
	srv := chatServer(t, "Plain prose answer with no classification.", http.StatusOK)

	c := NewClient(Config{BaseURL: srv.URL, Model: "test-model"})
	rec, err := c.Analyze(context.Background(), "ev-2", model.FileEventData{
		Type: model.FileModified, Path: "/tmp/x.py", Content: "x = 1\n",
	})
	require.NoError(t, err)
	assert.Nil(t, rec.Risk)
	assert.Equal(t, "Plain prose answer with no classification.", rec.Analysis)
}

func TestAnalyze_ServerError(t *testing.T) {
	srv := chatServer(t, "", http.StatusInternalServerError)

	c := NewClient(Config{BaseURL: srv.URL, Model: "test-model"})
	_, err := c.Analyze(context.Background(), "ev-3", model.FileEventData{
		Type: model.FileCreated, Path: "/tmp/x.py",
	})
	assert.True(t, errors.Is(err, errclass.ErrAnalysisUnavailable))
}

func TestAnalyze_ConnectionRefused(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "m", Timeout: time.Second})
	_, err := c.Analyze(context.Background(), "ev-4", model.FileEventData{
		Type: model.FileCreated, Path: "/tmp/x.py",
	})
	assert.True(t, errors.Is(err, errclass.ErrAnalysisUnavailable))
}

func TestAnalyze_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"})
	_, err := c.Analyze(context.Background(), "ev-5", model.FileEventData{
		Type: model.FileCreated, Path: "/tmp/x.py",
	})
	assert.True(t, errors.Is(err, errclass.ErrAnalysisMalformed))
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	assert.NoError(t, c.Ping(context.Background()))

	bad := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	assert.True(t, errors.Is(bad.Ping(context.Background()), errclass.ErrAnalysisUnavailable))
}

func TestExtractRisk_InvalidLevel(t *testing.T) {
	text, risk := extractRisk(`analysis {"risk_level": "Severe", "confidence": 0.5}`)
	assert.Nil(t, risk)
	assert.Contains(t, text, "analysis")
}

func TestExtractRisk_ClampsConfidence(t *testing.T) {
	_, risk := extractRisk(`all good {"risk_level": "Low", "confidence": 3.2}`)
	require.NotNil(t, risk)
	assert.Equal(t, 1.0, risk.Confidence)
}

func TestUserPrompt_TruncatesContent(t *testing.T) {
	long := strings.Repeat("a", 2000)
	prompt := userPrompt(model.FileEventData{Type: model.FileCreated, Path: "/tmp/big.py", Content: long})
	assert.Less(t, len(prompt), 1200)
	assert.Contains(t, prompt, "CODE FILE CREATED")
}

func TestUserPrompt_Deleted(t *testing.T) {
	prompt := userPrompt(model.FileEventData{Type: model.FileDeleted, Path: "/tmp/old.py"})
	assert.Contains(t, prompt, "FILE DELETED")
	assert.NotContains(t, prompt, "```")
}
