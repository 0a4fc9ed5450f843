package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/contract-sentinel/internal/core"
)

// ErrNoJSON is returned when a model response carries no JSON object
var ErrNoJSON = errors.New("no JSON object in response")

// NarrativePrompt is the prompt shared by every narrator; %s is the report digest
const NarrativePrompt = `You are a contract portfolio analyst. Review the following risk report for pending contracts and write a short executive briefing.
Respond with a JSON object containing:
- summary: string (two or three sentences on the state of the pending portfolio)
- actions: array of strings (the most important next steps, most urgent first)

Report:
%s

Respond only with the JSON object and nothing else.`

// NarrativeSystemPrompt is sent as the system message where the provider supports one
const NarrativeSystemPrompt = "You are a contract portfolio analyst. Respond only with JSON."

// NarrativeResponse represents the structured response from the LLM
type NarrativeResponse struct {
	Summary string   `json:"summary"`
	Actions []string `json:"actions"`
}

// FormatReportDigest renders a compact plain-text digest of a report
func FormatReportDigest(report *core.AnalysisReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Records: %d, pending: %d, critical: %d, high risk: %d, overdue: %d, anomalous: %d\n",
		report.TotalRecords, report.TotalPending, len(report.CriticalPending),
		len(report.HighRiskPending), len(report.OverduePending), len(report.AnomalousContracts))

	if len(report.Insights) > 0 {
		b.WriteString("Insights:\n")
		for _, insight := range report.Insights {
			fmt.Fprintf(&b, "- %s\n", insight)
		}
	}

	writeBucket(&b, "Critical pending", report.CriticalPending)
	writeBucket(&b, "High risk pending", report.HighRiskPending)
	writeBucket(&b, "Overdue pending", report.OverduePending)
	writeBucket(&b, "Anomalous", report.AnomalousContracts)
	return b.String()
}

func writeBucket(b *strings.Builder, name string, contracts []core.PendingContract) {
	if len(contracts) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", name)
	for _, pc := range contracts {
		label := pc.Title
		if label == "" {
			label = fmt.Sprintf("record #%d", pc.Index)
		}
		fmt.Fprintf(b, "- %s | status: %s | risk: %s (%.1f)", label, pc.Status,
			pc.Prediction.RiskLevel, pc.Prediction.RiskScore)
		if pc.HasDate {
			fmt.Fprintf(b, " | age: %d days", pc.AgeDays)
		}
		b.WriteString("\n")
	}
}

// ParseNarrativeResponse parses the LLM's JSON response, falling back to the
// outermost {...} span when the model wrapped it in prose
func ParseNarrativeResponse(responseText string) (*NarrativeResponse, error) {
	var resp NarrativeResponse
	if err := json.Unmarshal([]byte(responseText), &resp); err == nil {
		return &resp, nil
	}

	jsonStart := strings.IndexByte(responseText, '{')
	jsonEnd := strings.LastIndexByte(responseText, '}')
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, ErrNoJSON
	}

	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return &resp, nil
}
