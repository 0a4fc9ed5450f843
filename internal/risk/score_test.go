package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/contract-sentinel/internal/risk"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		f    risk.Factors
		want float64
	}{
		{"priority only", risk.Factors{Priority: 2}, 20},
		{"age adds a tenth per day", risk.Factors{AgeDays: 100, Priority: 1}, 20},
		{"every flag", risk.Factors{Priority: 3, Urgent: true, Delay: true, Negative: true}, 75},
		{"delay and negative", risk.Factors{AgeDays: 10, Priority: 2, Delay: true, Negative: true}, 46},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, risk.Score(tt.f), 1e-9)
		})
	}
}
