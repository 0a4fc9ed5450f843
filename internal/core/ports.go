package core

import (
	"context"
)

// PredictionCache defines the interface for caching predictions per bundle and record
type PredictionCache interface {
	// Get retrieves a cached entry by key; a miss or expired entry returns nil, nil
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// Narrator defines the interface for LLM services that brief a report in prose
type Narrator interface {
	// Narrate produces an executive briefing for an analysis report
	Narrate(ctx context.Context, report *AnalysisReport) (*Narrative, error)
}

// Notifier defines the interface for delivering a report to people
type Notifier interface {
	// Notify delivers the report
	Notify(ctx context.Context, report *AnalysisReport) error
}
