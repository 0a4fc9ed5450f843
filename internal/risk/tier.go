// Package risk holds the deterministic risk score and its tier classification
package risk

import "fmt"

// Tier is a totally ordered risk classification. The zero value is Unknown,
// which is only produced when no usable model exists
type Tier int

const (
	Unknown Tier = iota
	Low
	Medium
	High
	Critical
)

var tierNames = map[Tier]string{
	Unknown:  "UNKNOWN",
	Low:      "LOW",
	Medium:   "MEDIUM",
	High:     "HIGH",
	Critical: "CRITICAL",
}

// String returns the upper-case tier name
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// ParseTier reconstructs a Tier from its string form
func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("invalid risk tier: %s", s)
}

// MarshalText renders the tier name so reports serialize readably
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier name
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AtLeast reports whether t is the same as or more severe than other
func (t Tier) AtLeast(other Tier) bool {
	return t >= other
}

// Thresholds are exclusive lower bounds: a score must exceed a bound to
// reach that tier
type Thresholds struct {
	Medium   float64
	High     float64
	Critical float64
}

// DefaultThresholds returns the 15/30/50 boundaries
func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 15, High: 30, Critical: 50}
}

// Classify maps a score to its tier
func (th Thresholds) Classify(score float64) Tier {
	switch {
	case score > th.Critical:
		return Critical
	case score > th.High:
		return High
	case score > th.Medium:
		return Medium
	default:
		return Low
	}
}
