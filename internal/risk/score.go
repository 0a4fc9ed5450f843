package risk

// Factors are the inputs of the linear risk score
type Factors struct {
	AgeDays  float64
	Priority float64
	Urgent   bool
	Delay    bool
	Negative bool
}

// Weights of the linear risk score. These are fixed design constants so the
// score stays auditable; they are not learned
const (
	WeightAgeDay   = 0.1
	WeightPriority = 10.0
	WeightUrgent   = 20.0
	WeightDelay    = 15.0
	WeightNegative = 10.0
)

// Score computes the linear risk score for the given factors
func Score(f Factors) float64 {
	score := WeightAgeDay*f.AgeDays + WeightPriority*f.Priority
	if f.Urgent {
		score += WeightUrgent
	}
	if f.Delay {
		score += WeightDelay
	}
	if f.Negative {
		score += WeightNegative
	}
	return score
}
