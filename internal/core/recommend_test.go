package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/risk"
)

func TestBuildRecommendations_FullCascadeOrder(t *testing.T) {
	got := core.BuildRecommendations(core.RecommendationInput{
		Tier:           risk.Critical,
		PredictedLabel: "Awaiting signature review",
		IsAnomaly:      true,
		HasDate:        true,
		AgeDays:        95,
		Status:         "Pending approval, signature and review",
	}, core.DefaultConfig())

	assert.Equal(t, []string{
		"ESCALATE: Assign executive oversight immediately",
		"Schedule emergency stakeholder meeting within 24 hours",
		"Predicted next status: Awaiting signature review",
		"Prepare signature documents in advance",
		"Schedule review meeting with legal team",
		"Unusual pattern detected - conduct detailed review",
		"Contract pending over 60 days - consider deadline enforcement",
		"URGENT: Contract pending over 90 days - executive intervention required",
		"Follow up with approving authority",
		"Send signature reminder to all parties",
		"Request review completion timeline",
	}, got)
}

func TestBuildRecommendations(t *testing.T) {
	cfg := core.DefaultConfig()

	tests := []struct {
		name string
		in   core.RecommendationInput
		want []string
	}{
		{
			name: "nothing to say",
			in:   core.RecommendationInput{Tier: risk.Low, Status: "Draft"},
			want: nil,
		},
		{
			name: "high tier",
			in:   core.RecommendationInput{Tier: risk.High},
			want: []string{"Escalate to department head", "Require daily status reporting"},
		},
		{
			name: "medium tier adds nothing",
			in:   core.RecommendationInput{Tier: risk.Medium},
			want: nil,
		},
		{
			name: "age bounds are exclusive",
			in:   core.RecommendationInput{HasDate: true, AgeDays: 60},
			want: nil,
		},
		{
			name: "undated records get no age advice",
			in:   core.RecommendationInput{HasDate: false, AgeDays: 500},
			want: nil,
		},
		{
			name: "between escalation and critical age",
			in:   core.RecommendationInput{HasDate: true, AgeDays: 61},
			want: []string{"Contract pending over 60 days - consider deadline enforcement"},
		},
		{
			name: "status keywords are case-insensitive",
			in:   core.RecommendationInput{Status: "AWAITING SIGNATURE"},
			want: []string{"Send signature reminder to all parties"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.BuildRecommendations(tt.in, cfg))
		})
	}
}
