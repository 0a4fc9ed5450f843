package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/record"
	"github.com/mikey/contract-sentinel/internal/risk"
)

func trainedBundle(t *testing.T, cfg core.Config, records []record.Record) *core.Bundle {
	t.Helper()
	bundle, _, err := core.NewTrainer(cfg, zaptest.NewLogger(t)).Train(records)
	require.NoError(t, err)
	return bundle
}

func TestPredict_WithoutModelIsDegraded(t *testing.T) {
	p := core.NewPredictor(testConfig(), zaptest.NewLogger(t))
	r := portfolio(1)[0]

	for _, b := range []*core.Bundle{nil, {}} {
		got := p.Predict(r, b)
		assert.Nil(t, got.PredictedLabel)
		assert.Zero(t, got.Confidence)
		assert.False(t, got.IsAnomaly)
		assert.Equal(t, risk.Unknown, got.RiskLevel)
	}
}

func TestPredict_KnownRecord(t *testing.T) {
	cfg := testConfig()
	records := portfolio(30)
	bundle := trainedBundle(t, cfg, records)
	p := core.NewPredictor(cfg, zaptest.NewLogger(t))

	got := p.Predict(records[1], bundle)
	require.NotNil(t, got.PredictedLabel)
	assert.Equal(t, "Awaiting signature", got.Label())
	assert.GreaterOrEqual(t, got.Confidence, cfg.ConfidenceThreshold)

	assert.Len(t, got.Probabilities, 3)
	var sum float64
	for _, prob := range got.Probabilities {
		sum += prob
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, got.Probabilities["Awaiting signature"], got.Confidence)

	assert.Equal(t, cfg.Risk.Classify(got.RiskScore), got.RiskLevel)
}

func TestPredict_LowConfidenceSuppressesLabel(t *testing.T) {
	cfg := testConfig()
	stages := []string{"Stage A", "Stage B", "Stage C", "Stage D", "Stage E"}
	records := make([]record.Record, 20)
	for i := range records {
		records[i] = record.Record{
			record.FieldDate:   daysAgo(10),
			record.FieldTitle:  "Contract",
			record.FieldStatus: stages[i%len(stages)],
		}
	}
	bundle := trainedBundle(t, cfg, records)

	got := core.NewPredictor(cfg, zaptest.NewLogger(t)).Predict(records[0], bundle)
	assert.Nil(t, got.PredictedLabel)
	assert.Equal(t, "", got.Label())
	assert.Less(t, got.Confidence, cfg.ConfidenceThreshold)
	assert.Greater(t, got.Confidence, 0.0)
	assert.Len(t, got.Probabilities, 5)
	assert.NotEqual(t, risk.Unknown, got.RiskLevel)
	assert.False(t, got.IsAnomaly)
}

func TestPredict_ExtraFieldsAndUnseenCategories(t *testing.T) {
	cfg := testConfig()
	records := portfolio(24)
	bundle := trainedBundle(t, cfg, records)
	p := core.NewPredictor(cfg, zaptest.NewLogger(t))

	base := records[4]
	extra := record.Record{"region": "north", "budget": "1000000"}
	for k, v := range base {
		extra[k] = v
	}
	assert.Equal(t, p.Predict(base, bundle), p.Predict(extra, bundle))

	unseen := record.Record{
		record.FieldStatus:  "Pending review",
		record.FieldCountry: "Atlantis",
		record.FieldProject: "Never seen",
	}
	got := p.Predict(unseen, bundle)
	assert.NotEqual(t, risk.Unknown, got.RiskLevel)
	assert.Len(t, got.Probabilities, 3)
}

func TestPredictor_VectorUsesFrozenReference(t *testing.T) {
	cfg := testConfig()
	bundle := trainedBundle(t, cfg, portfolio(20))
	p := core.NewPredictor(cfg, zaptest.NewLogger(t))

	r := record.Record{record.FieldDate: daysAgo(1)}
	v := p.Vector(r, bundle)
	want := features.DaysBetween(bundle.Schema.ReferenceDate, fixedNow.AddDate(0, 0, -1))
	assert.Equal(t, float64(want), v.Get(features.DaysSinceReference))

	// without a bundle the record is its own batch
	assert.Zero(t, p.Vector(r, nil).Get(features.DaysSinceReference))
}
