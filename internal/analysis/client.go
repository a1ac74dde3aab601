// Package analysis forwards file-change payloads to a locally running
// OpenAI-compatible inference endpoint and parses the returned risk
// classification.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/actlog-project/actlog/pkg/errclass"
	"github.com/actlog-project/actlog/pkg/model"
)

// Config configures the inference client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to the local inference endpoint. Calls are synchronous
// and blocking per event; there is no queue and no retry.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze sends one file event to the endpoint and returns the analysis
// record to append to the analysis log.
func (c *Client) Analyze(ctx context.Context, eventID string, data model.FileEventData) (model.AnalysisRecord, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    buildMessages(data),
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		return model.AnalysisRecord{}, errclass.ErrAnalysisMalformed.WithMessagef("marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return model.AnalysisRecord{}, errclass.ErrAnalysisUnavailable.WithMessagef("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.AnalysisRecord{}, errclass.ErrAnalysisUnavailable.WithMessagef("call %s: %v", c.cfg.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.AnalysisRecord{}, errclass.ErrAnalysisUnavailable.WithMessagef("endpoint returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AnalysisRecord{}, errclass.ErrAnalysisUnavailable.WithMessagef("read response: %v", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return model.AnalysisRecord{}, errclass.ErrAnalysisMalformed.WithMessagef("decode response: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return model.AnalysisRecord{}, errclass.ErrAnalysisMalformed.WithMessage("response has no choices")
	}

	content := parsed.Choices[0].Message.Content
	analysis, risk := extractRisk(content)

	return model.AnalysisRecord{
		Timestamp: time.Now().UTC(),
		EventID:   eventID,
		Path:      data.Path,
		Analysis:  analysis,
		Risk:      risk,
	}, nil
}

// Ping checks that the endpoint answers at all. Used by doctor.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/v1/models", nil)
	if err != nil {
		return errclass.ErrAnalysisUnavailable.WithMessagef("build request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errclass.ErrAnalysisUnavailable.WithMessagef("call %s: %v", c.cfg.BaseURL, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return errclass.ErrAnalysisUnavailable.WithMessagef("endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// extractRisk splits the model output into free-text analysis and a
// trailing JSON risk object. Output without a parseable risk object is
// kept whole with a nil classification.
func extractRisk(content string) (string, *model.RiskClassification) {
	start := strings.LastIndex(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return strings.TrimSpace(content), nil
	}

	var risk model.RiskClassification
	if err := json.Unmarshal([]byte(content[start:end+1]), &risk); err != nil {
		return strings.TrimSpace(content), nil
	}
	if !model.ValidRiskLevel(risk.RiskLevel) {
		return strings.TrimSpace(content), nil
	}
	if risk.Confidence < 0 {
		risk.Confidence = 0
	}
	if risk.Confidence > 1 {
		risk.Confidence = 1
	}
	return strings.TrimSpace(content[:start]), &risk
}
