package utils_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/risk"
	"github.com/mikey/contract-sentinel/internal/utils"
)

func TestParseNarrativeResponse(t *testing.T) {
	resp, err := utils.ParseNarrativeResponse(`{"summary": "Two contracts stalled.", "actions": ["Call legal"]}`)
	require.NoError(t, err)
	assert.Equal(t, "Two contracts stalled.", resp.Summary)
	assert.Equal(t, []string{"Call legal"}, resp.Actions)

	resp, err = utils.ParseNarrativeResponse("Sure! Here it is:\n```json\n{\"summary\": \"Fine\", \"actions\": []}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Fine", resp.Summary)

	_, err = utils.ParseNarrativeResponse("no json at all")
	assert.ErrorIs(t, err, utils.ErrNoJSON)

	_, err = utils.ParseNarrativeResponse("{broken")
	assert.ErrorIs(t, err, utils.ErrNoJSON)

	_, err = utils.ParseNarrativeResponse("x {not: json} y")
	assert.Error(t, err)
}

func sampleReport() *core.AnalysisReport {
	label := "Awaiting signature"
	pc := core.PendingContract{
		Index:       3,
		Title:       "Bridge works",
		Status:      "Pending review",
		Criticality: risk.Critical,
		Prediction: core.PredictionResult{
			PredictedLabel: &label,
			Confidence:     0.64,
			RiskLevel:      risk.High,
			RiskScore:      42,
		},
		HasDate:         true,
		AgeDays:         45,
		Recommendations: []string{"Escalate to department head"},
	}
	return &core.AnalysisReport{
		GeneratedAt:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		BundleID:        "b-1",
		BundleVersion:   2,
		TotalRecords:    10,
		TotalPending:    4,
		Pending:         []core.PendingContract{pc},
		CriticalPending: []core.PendingContract{pc},
		OverduePending:  []core.PendingContract{{Index: 7, Status: "Waiting"}},
		Insights:        []string{"ALERT: 1 critical pending contracts require immediate attention"},
		Narrative:       &core.Narrative{Summary: "Act now.", Actions: []string{"Call the contractor"}, ModelUsed: "gpt"},
	}
}

func TestFormatReportDigest(t *testing.T) {
	digest := utils.FormatReportDigest(sampleReport())

	assert.Contains(t, digest, "Records: 10, pending: 4, critical: 1, high risk: 0, overdue: 1, anomalous: 0")
	assert.Contains(t, digest, "- ALERT: 1 critical pending contracts require immediate attention")
	assert.Contains(t, digest, "- Bridge works | status: Pending review | risk: HIGH (42.0) | age: 45 days")
	assert.Contains(t, digest, "- record #7 | status: Waiting")
	assert.NotContains(t, digest, "High risk pending")
}

func TestWriteReport(t *testing.T) {
	var quiet, verbose bytes.Buffer
	utils.WriteReport(&quiet, sampleReport(), false)
	utils.WriteReport(&verbose, sampleReport(), true)

	assert.Contains(t, quiet.String(), "Model: b-1 (v2)")
	assert.Contains(t, quiet.String(), "=== Critical pending (1) ===")
	assert.Contains(t, quiet.String(), "criticality: CRITICAL | risk: HIGH (42.0)")
	assert.Contains(t, quiet.String(), "1. Call the contractor")
	assert.NotContains(t, quiet.String(), "Predicted:")

	assert.Contains(t, verbose.String(), "Predicted: Awaiting signature (0.64)")
	assert.Contains(t, verbose.String(), "Escalate to department head")

	var empty bytes.Buffer
	utils.WriteReport(&empty, &core.AnalysisReport{}, false)
	assert.Contains(t, empty.String(), "Model: none")
	assert.Contains(t, empty.String(), "No alerts.")
}
