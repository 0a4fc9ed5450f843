package risk_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/contract-sentinel/internal/risk"
)

func TestThresholds_ClassifyBoundaries(t *testing.T) {
	th := risk.DefaultThresholds()

	tests := []struct {
		score float64
		want  risk.Tier
	}{
		{0, risk.Low},
		{15.0, risk.Low},
		{15.01, risk.Medium},
		{30.0, risk.Medium},
		{30.01, risk.High},
		{50.0, risk.High},
		{50.01, risk.Critical},
		{500, risk.Critical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.score), "score %v", tt.score)
	}
}

func TestTier_StringAndParse(t *testing.T) {
	for _, tier := range []risk.Tier{risk.Unknown, risk.Low, risk.Medium, risk.High, risk.Critical} {
		parsed, err := risk.ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, parsed)
	}

	_, err := risk.ParseTier("SEVERE")
	assert.Error(t, err)
}

func TestTier_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]risk.Tier{"level": risk.Critical})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"CRITICAL"}`, string(data))

	var out map[string]risk.Tier
	require.NoError(t, json.Unmarshal([]byte(`{"level":"HIGH"}`), &out))
	assert.Equal(t, risk.High, out["level"])
}

func TestTier_AtLeast(t *testing.T) {
	assert.True(t, risk.Critical.AtLeast(risk.High))
	assert.True(t, risk.High.AtLeast(risk.High))
	assert.False(t, risk.Medium.AtLeast(risk.High))
}
