package model

import "time"

// RiskLevel is the security-risk label returned by the inference endpoint.
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
)

// ValidRiskLevel reports whether s is one of the four known levels.
func ValidRiskLevel(s RiskLevel) bool {
	switch s {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

// RiskClassification is an externally computed risk label for a file change.
type RiskClassification struct {
	RiskLevel  RiskLevel `json:"risk_level"`
	Confidence float64   `json:"confidence"`
	Rationale  string    `json:"rationale,omitempty"`
}

// AnalysisRecord is a single line in llm_analysis.log, keyed to the
// originating file event by EventID.
type AnalysisRecord struct {
	Timestamp time.Time           `json:"timestamp"`
	EventID   string              `json:"event_id"`
	Path      string              `json:"path"`
	Analysis  string              `json:"analysis,omitempty"`
	Risk      *RiskClassification `json:"risk,omitempty"`
}
