package features

import (
	"math"
	"strings"
	"time"

	"github.com/mikey/contract-sentinel/internal/record"
)

// dayFirstLayouts are tried in order; the first successful parse wins
// Ambiguous numeric dates are always read day/month/year
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"02 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses s using the day-first convention
// ok is false for empty or unparseable input
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// DaysBetween returns the whole number of days from a to b, floored
func DaysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// BatchContext carries the batch-wide values feature derivation depends on
type BatchContext struct {
	Reference time.Time
	Now       time.Time
}

// NewBatchContext computes the reference date for a batch: the earliest
// parseable date, or now when no date in the batch parses
func NewBatchContext(records []record.Record, now time.Time) BatchContext {
	var earliest time.Time
	found := false
	for _, r := range records {
		t, ok := ParseDate(r.Get(record.FieldDate))
		if !ok {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	if !found {
		earliest = now
	}
	return BatchContext{Reference: earliest, Now: now}
}
