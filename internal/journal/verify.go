package journal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Finding describes one problem found in a log file.
type Finding struct {
	Line    int    `json:"line"`
	Problem string `json:"problem"`
}

// VerifyResult summarizes a log file check.
type VerifyResult struct {
	Path     string    `json:"path"`
	Lines    int       `json:"lines"`
	Findings []Finding `json:"findings,omitempty"`
}

// OK reports whether the file verified clean.
func (r VerifyResult) OK() bool { return len(r.Findings) == 0 }

func requiredKeys(category Category) []string {
	if category == CategoryAnalysis {
		return []string{"timestamp", "event_id"}
	}
	return []string{"event", "data", "timestamp"}
}

// Verify checks that every line of the category log parses as a JSON
// object carrying the required top-level keys, and that timestamps are
// non-decreasing within the file.
func Verify(dir string, category Category) (VerifyResult, error) {
	w := NewWriter(dir, category)
	result := VerifyResult{Path: w.Path()}
	keys := requiredKeys(category)

	var prev time.Time
	err := ScanLines(w.Path(), func(line []byte) error {
		result.Lines++

		var generic map[string]json.RawMessage
		if err := json.Unmarshal(line, &generic); err != nil {
			result.Findings = append(result.Findings, Finding{
				Line:    result.Lines,
				Problem: fmt.Sprintf("not valid JSON: %v", err),
			})
			return nil
		}

		for _, key := range keys {
			if _, ok := generic[key]; !ok {
				result.Findings = append(result.Findings, Finding{
					Line:    result.Lines,
					Problem: fmt.Sprintf("missing required key %q", key),
				})
			}
		}

		if raw, ok := generic["timestamp"]; ok {
			var ts time.Time
			if err := json.Unmarshal(raw, &ts); err != nil {
				result.Findings = append(result.Findings, Finding{
					Line:    result.Lines,
					Problem: "timestamp is not RFC 3339",
				})
				return nil
			}
			if ts.Before(prev) {
				result.Findings = append(result.Findings, Finding{
					Line:    result.Lines,
					Problem: "timestamp earlier than previous record",
				})
			}
			prev = ts
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}
