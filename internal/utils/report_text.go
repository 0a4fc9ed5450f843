package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/mikey/contract-sentinel/internal/core"
)

// WriteReport renders an analysis report as plain text
func WriteReport(w io.Writer, report *core.AnalysisReport, verbose bool) {
	fmt.Fprintf(w, "=== Portfolio Analysis ===\n")
	fmt.Fprintf(w, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	if report.BundleID != "" {
		fmt.Fprintf(w, "Model: %s (v%d)\n", report.BundleID, report.BundleVersion)
	} else {
		fmt.Fprintf(w, "Model: none (risk tiers unavailable)\n")
	}
	fmt.Fprintf(w, "Records: %d, pending: %d\n", report.TotalRecords, report.TotalPending)

	fmt.Fprintf(w, "\n=== Insights ===\n")
	if len(report.Insights) == 0 {
		fmt.Fprintf(w, "No alerts.\n")
	}
	for _, insight := range report.Insights {
		fmt.Fprintf(w, "* %s\n", insight)
	}

	writeSection(w, "Critical pending", report.CriticalPending, verbose)
	writeSection(w, "High risk pending", report.HighRiskPending, verbose)
	writeSection(w, "Overdue pending", report.OverduePending, verbose)
	writeSection(w, "Anomalous contracts", report.AnomalousContracts, verbose)

	if report.Narrative != nil {
		fmt.Fprintf(w, "\n=== Briefing (%s) ===\n", report.Narrative.ModelUsed)
		fmt.Fprintf(w, "%s\n", report.Narrative.Summary)
		for i, action := range report.Narrative.Actions {
			fmt.Fprintf(w, "%d. %s\n", i+1, action)
		}
	}
}

func writeSection(w io.Writer, name string, contracts []core.PendingContract, verbose bool) {
	if len(contracts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n=== %s (%d) ===\n", name, len(contracts))
	for _, pc := range contracts {
		title := pc.Title
		if title == "" {
			title = fmt.Sprintf("record #%d", pc.Index)
		}
		fmt.Fprintf(w, "- %s\n", title)
		fmt.Fprintf(w, "  Status: %s | criticality: %s | risk: %s (%.1f)\n",
			pc.Status, pc.Criticality, pc.Prediction.RiskLevel, pc.Prediction.RiskScore)
		if pc.HasDate {
			fmt.Fprintf(w, "  Age: %d days\n", pc.AgeDays)
		}
		if verbose {
			if label := pc.Prediction.Label(); label != "" {
				fmt.Fprintf(w, "  Predicted: %s (%.2f)\n", label, pc.Prediction.Confidence)
			}
			if len(pc.Recommendations) > 0 {
				fmt.Fprintf(w, "  Recommendations:\n    %s\n", strings.Join(pc.Recommendations, "\n    "))
			}
		}
	}
}
