package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/record"
	"github.com/mikey/contract-sentinel/internal/risk"
	"github.com/mikey/contract-sentinel/internal/statusset"
)

// PredictFunc scores one record against a bundle snapshot
type PredictFunc func(ctx context.Context, r record.Record, b *Bundle) PredictionResult

// Analyzer aggregates a record batch into alert buckets
type Analyzer struct {
	cfg       Config
	closed    *statusset.Set
	predictor *Predictor
	predict   PredictFunc
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer. A nil predict uses the plain predictor
func NewAnalyzer(cfg Config, predict PredictFunc, logger *zap.Logger) *Analyzer {
	a := &Analyzer{
		cfg:       cfg,
		closed:    statusset.New(cfg.ClosedStatuses, logger),
		predictor: NewPredictor(cfg, logger),
		predict:   predict,
		logger:    logger,
	}
	if a.predict == nil {
		a.predict = func(_ context.Context, r record.Record, b *Bundle) PredictionResult {
			return a.predictor.Predict(r, b)
		}
	}
	return a
}

// IsPending reports whether the record is open and its status reads as pending
func (a *Analyzer) IsPending(r record.Record) bool {
	status := r.Status()
	if status == "" || a.closed.Contains(status) {
		return false
	}
	return features.Matches(features.FamilyPending, features.Lower(status))
}

// Criticality classifies a pending record from its status and title keywords
func Criticality(r record.Record) risk.Tier {
	status := features.Lower(r.Status())
	title := features.Lower(r.Title())

	switch {
	case features.Matches(features.FamilyHighPriority, status),
		features.Matches(features.FamilyHighPriority, title):
		return risk.Critical
	case features.Matches(features.FamilyReviewStage, status):
		return risk.High
	case features.Matches(features.FamilyNegotiating, status):
		return risk.Medium
	default:
		return risk.Low
	}
}

// Recommendations runs the cascade for one record against a bundle snapshot
func (a *Analyzer) Recommendations(ctx context.Context, r record.Record, b *Bundle) []string {
	pred := a.predict(ctx, r, b)
	v := a.predictor.Vector(r, b)
	return BuildRecommendations(RecommendationInput{
		Tier:           pred.RiskLevel,
		PredictedLabel: pred.Label(),
		IsAnomaly:      pred.IsAnomaly,
		HasDate:        v.HasDate,
		AgeDays:        v.AgeDays,
		Status:         r.Status(),
	}, a.cfg)
}

// Analyze builds the report for records against the bundle snapshot b
// The bundle may be nil, in which case model-derived buckets stay empty
func (a *Analyzer) Analyze(ctx context.Context, records []record.Record, b *Bundle) *AnalysisReport {
	report := &AnalysisReport{
		GeneratedAt:  a.cfg.now(),
		TotalRecords: len(records),
	}
	if b != nil {
		report.BundleID = b.ID
		report.BundleVersion = b.Version
	}

	for i, r := range records {
		if !a.IsPending(r) {
			continue
		}

		pred := a.predict(ctx, r, b)
		v := a.predictor.Vector(r, b)
		pc := PendingContract{
			Index:       i,
			ID:          r.Get(record.FieldID),
			Title:       r.Title(),
			Status:      r.Status(),
			Criticality: Criticality(r),
			Prediction:  pred,
			HasDate:     v.HasDate,
			AgeDays:     v.AgeDays,
			Record:      r,
		}
		pc.Recommendations = BuildRecommendations(RecommendationInput{
			Tier:           pred.RiskLevel,
			PredictedLabel: pred.Label(),
			IsAnomaly:      pred.IsAnomaly,
			HasDate:        v.HasDate,
			AgeDays:        v.AgeDays,
			Status:         pc.Status,
		}, a.cfg)

		report.Pending = append(report.Pending, pc)

		critical := pc.Criticality == risk.Critical || pred.RiskLevel == risk.Critical
		if critical {
			report.CriticalPending = append(report.CriticalPending, pc)
		} else if pred.RiskLevel == risk.High || pred.RiskLevel == risk.Medium {
			report.HighRiskPending = append(report.HighRiskPending, pc)
		}
		if pc.HasDate && pc.AgeDays > a.cfg.OverdueDays {
			report.OverduePending = append(report.OverduePending, pc)
		}
		if pred.IsAnomaly {
			report.AnomalousContracts = append(report.AnomalousContracts, pc)
		}
	}

	report.TotalPending = len(report.Pending)
	report.Insights = a.insights(report)

	a.logger.Debug("Portfolio analyzed",
		zap.Int("records", report.TotalRecords),
		zap.Int("pending", report.TotalPending),
		zap.Int("critical", len(report.CriticalPending)),
		zap.Int("overdue", len(report.OverduePending)),
		zap.Int("anomalous", len(report.AnomalousContracts)))

	return report
}

func (a *Analyzer) insights(report *AnalysisReport) []string {
	var out []string

	if n := len(report.CriticalPending); n > 0 {
		out = append(out, fmt.Sprintf("ALERT: %d critical pending contracts require immediate attention", n))
	}

	if n := len(report.OverduePending); n > 0 {
		total := 0
		for _, pc := range report.OverduePending {
			total += pc.AgeDays
		}
		mean := float64(total) / float64(n)
		out = append(out, fmt.Sprintf("%d contracts overdue (>%d days), average age %.0f days",
			n, a.cfg.OverdueDays, mean))
	}

	if n := len(report.AnomalousContracts); n > 0 {
		out = append(out, fmt.Sprintf("%d contracts show unusual patterns and need review", n))
	}

	if report.TotalPending > 0 {
		rate := float64(len(report.CriticalPending)) / float64(report.TotalPending)
		if rate > a.cfg.CriticalRate {
			out = append(out, fmt.Sprintf("High critical rate: %.1f%% of pending contracts are critical", rate*100))
		}
	}

	return out
}
