package core

import (
	"fmt"
	"strings"

	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/risk"
)

// RecommendationInput carries what the recommendation cascade looks at
type RecommendationInput struct {
	Tier           risk.Tier
	PredictedLabel string
	IsAnomaly      bool
	HasDate        bool
	AgeDays        int
	Status         string
}

// BuildRecommendations runs the rule cascade. The order of the returned
// directives is stable: tier, predicted status, anomaly, age, status keywords
func BuildRecommendations(in RecommendationInput, cfg Config) []string {
	var recs []string

	switch in.Tier {
	case risk.Critical:
		recs = append(recs,
			"ESCALATE: Assign executive oversight immediately",
			"Schedule emergency stakeholder meeting within 24 hours")
	case risk.High:
		recs = append(recs,
			"Escalate to department head",
			"Require daily status reporting")
	}

	if in.PredictedLabel != "" {
		recs = append(recs, fmt.Sprintf("Predicted next status: %s", in.PredictedLabel))
		predicted := features.Lower(in.PredictedLabel)
		if strings.Contains(predicted, "signature") {
			recs = append(recs, "Prepare signature documents in advance")
		}
		if strings.Contains(predicted, "review") {
			recs = append(recs, "Schedule review meeting with legal team")
		}
	}

	if in.IsAnomaly {
		recs = append(recs, "Unusual pattern detected - conduct detailed review")
	}

	if in.HasDate {
		if in.AgeDays > cfg.EscalationDays {
			recs = append(recs, fmt.Sprintf(
				"Contract pending over %d days - consider deadline enforcement", cfg.EscalationDays))
		}
		if in.AgeDays > cfg.CriticalAgeDays {
			recs = append(recs, fmt.Sprintf(
				"URGENT: Contract pending over %d days - executive intervention required", cfg.CriticalAgeDays))
		}
	}

	status := features.Lower(in.Status)
	if strings.Contains(status, "approval") {
		recs = append(recs, "Follow up with approving authority")
	}
	if strings.Contains(status, "signature") {
		recs = append(recs, "Send signature reminder to all parties")
	}
	if strings.Contains(status, "review") {
		recs = append(recs, "Request review completion timeline")
	}

	return recs
}
