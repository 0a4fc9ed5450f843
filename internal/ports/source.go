package ports

import (
	"context"

	"github.com/mikey/contract-sentinel/internal/record"
)

// RecordSource defines the interface for loading a record batch
type RecordSource interface {
	// Load returns the current record batch
	Load(ctx context.Context) ([]record.Record, error)
}
