package core

import (
	"time"

	"github.com/mikey/contract-sentinel/internal/record"
	"github.com/mikey/contract-sentinel/internal/risk"
)

// PredictionResult is the outcome of scoring one record against a bundle
type PredictionResult struct {
	PredictedLabel *string            `json:"predicted_label"`
	Confidence     float64            `json:"confidence"`
	IsAnomaly      bool               `json:"is_anomaly"`
	RiskLevel      risk.Tier          `json:"risk_level"`
	RiskScore      float64            `json:"risk_score"`
	Probabilities  map[string]float64 `json:"probabilities,omitempty"`
}

// DegradedPrediction is returned when no usable model exists
func DegradedPrediction() PredictionResult {
	return PredictionResult{
		PredictedLabel: nil,
		Confidence:     0,
		IsAnomaly:      false,
		RiskLevel:      risk.Unknown,
	}
}

// Label returns the predicted label or "" when suppressed
func (p PredictionResult) Label() string {
	if p.PredictedLabel == nil {
		return ""
	}
	return *p.PredictedLabel
}

// Clone returns a copy that shares no label pointer or probability map with p
func (p PredictionResult) Clone() PredictionResult {
	out := p
	if p.PredictedLabel != nil {
		label := *p.PredictedLabel
		out.PredictedLabel = &label
	}
	if p.Probabilities != nil {
		out.Probabilities = make(map[string]float64, len(p.Probabilities))
		for k, v := range p.Probabilities {
			out.Probabilities[k] = v
		}
	}
	return out
}

// PendingContract is a pending record with everything the analyzer derived for it
type PendingContract struct {
	Index           int              `json:"index"`
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Status          string           `json:"status"`
	Criticality     risk.Tier        `json:"criticality"`
	Prediction      PredictionResult `json:"prediction"`
	HasDate         bool             `json:"has_date"`
	AgeDays         int              `json:"age_days"`
	Recommendations []string         `json:"recommendations"`
	Record          record.Record    `json:"record"`
}

// AnalysisReport aggregates a record batch into alert buckets and insights
type AnalysisReport struct {
	ID                 string            `json:"id"`
	GeneratedAt        time.Time         `json:"generated_at"`
	BundleID           string            `json:"bundle_id,omitempty"`
	BundleVersion      int               `json:"bundle_version"`
	TotalRecords       int               `json:"total_records"`
	TotalPending       int               `json:"total_pending"`
	Pending            []PendingContract `json:"pending"`
	CriticalPending    []PendingContract `json:"critical_pending"`
	HighRiskPending    []PendingContract `json:"high_risk_pending"`
	OverduePending     []PendingContract `json:"overdue_pending"`
	AnomalousContracts []PendingContract `json:"anomalous_contracts"`
	Insights           []string          `json:"insights"`
	Narrative          *Narrative        `json:"narrative,omitempty"`
}

// HasAlerts reports whether any alert bucket is non-empty
func (r *AnalysisReport) HasAlerts() bool {
	return len(r.CriticalPending) > 0 || len(r.HighRiskPending) > 0 ||
		len(r.OverduePending) > 0 || len(r.AnomalousContracts) > 0
}

// Narrative is a free-text briefing generated for a report
type Narrative struct {
	Summary     string    `json:"summary"`
	Actions     []string  `json:"actions"`
	ModelUsed   string    `json:"model_used"`
	GeneratedAt time.Time `json:"generated_at"`
}

// CacheEntry is a cached prediction for one record under one bundle
type CacheEntry struct {
	Key       string
	BundleID  string
	Result    PredictionResult
	CachedAt  time.Time
	ExpiresAt time.Time
}
