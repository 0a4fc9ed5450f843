package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/ml"
)

// Bundle is a trained model set together with the frozen feature schema it
// was trained against. A bundle is never mutated after it is published;
// retraining produces a new one
type Bundle struct {
	ID         string
	Version    int
	TrainedAt  time.Time
	Schema     features.Schema
	Encoder    *ml.Encoder
	Classifier *ml.RandomForest
	Detector   *ml.IsolationForest
	Accuracy   *float64
	Records    int
	Classes    []string
}

// Usable reports whether the bundle can serve predictions
func (b *Bundle) Usable() bool {
	return b != nil && !b.Schema.Empty() && b.Encoder != nil && b.Classifier != nil
}

// TrainingSummary describes a completed training run
type TrainingSummary struct {
	BundleID     string
	Version      int
	TrainedAt    time.Time
	TotalRecords int
	OpenRecords  int
	ClassCounts  map[string]int
	Classes      []string
	FeatureCount int
	EncodedWidth int
	Accuracy     *float64
	CVFolds      int
	CVError      string
}

// String renders the summary for display
func (s *TrainingSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model trained on %d open records (%d total), %d statuses, %d features (%d encoded)",
		s.OpenRecords, s.TotalRecords, len(s.Classes), s.FeatureCount, s.EncodedWidth)
	if s.Accuracy != nil {
		fmt.Fprintf(&b, "; cross-validated accuracy %.1f%% (%d folds)", *s.Accuracy*100, s.CVFolds)
	} else {
		b.WriteString("; accuracy unknown")
		if s.CVError != "" {
			fmt.Fprintf(&b, " (%s)", s.CVError)
		}
	}
	if len(s.Classes) > 0 {
		parts := make([]string, 0, len(s.Classes))
		for _, c := range s.Classes {
			parts = append(parts, fmt.Sprintf("%s=%d", c, s.ClassCounts[c]))
		}
		fmt.Fprintf(&b, "\nStatus distribution: %s", strings.Join(parts, ", "))
	}
	return b.String()
}
