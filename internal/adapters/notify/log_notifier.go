package notify

import (
	"context"

	"github.com/mikey/contract-sentinel/internal/core"
	"go.uber.org/zap"
)

// LogNotifier writes report summaries to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the report headline and one line per critical contract
func (n *LogNotifier) Notify(ctx context.Context, report *core.AnalysisReport) error {
	n.logger.Info("Portfolio report",
		zap.String("report_id", report.ID),
		zap.String("bundle_id", report.BundleID),
		zap.Int("pending", report.TotalPending),
		zap.Int("critical", len(report.CriticalPending)),
		zap.Int("high_risk", len(report.HighRiskPending)),
		zap.Int("overdue", len(report.OverduePending)),
		zap.Int("anomalous", len(report.AnomalousContracts)),
		zap.Strings("insights", report.Insights))

	for _, pc := range report.CriticalPending {
		n.logger.Warn("Critical pending contract",
			zap.String("report_id", report.ID),
			zap.String("title", pc.Title),
			zap.String("status", pc.Status),
			zap.Stringer("risk", pc.Prediction.RiskLevel),
			zap.Strings("recommendations", pc.Recommendations))
	}
	return nil
}

// NoopNotifier discards reports
type NoopNotifier struct{}

// Notify does nothing
func (NoopNotifier) Notify(ctx context.Context, report *core.AnalysisReport) error {
	return nil
}
