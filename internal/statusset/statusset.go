package statusset

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultClosed lists the statuses that mark a contract as no longer open
var DefaultClosed = []string{"Executed", "Signed", "Completed", "Closed", "Cancelled"}

// Set checks status labels against a normalized list
type Set struct {
	statuses map[string]struct{}
	logger   *zap.Logger
}

// New creates a status set; entries are trimmed and compared case-insensitively
func New(statuses []string, logger *zap.Logger) *Set {
	normalized := make(map[string]struct{}, len(statuses))
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		key := normalize(s)
		if key == "" {
			continue
		}
		if _, dup := normalized[key]; !dup {
			names = append(names, key)
		}
		normalized[key] = struct{}{}
	}

	if len(names) > 0 && logger != nil {
		logger.Debug("Initialized status set", zap.Strings("statuses", names))
	}

	return &Set{
		statuses: normalized,
		logger:   logger,
	}
}

// Contains checks if the status is a member of the set
func (s *Set) Contains(status string) bool {
	if s == nil || len(s.statuses) == 0 {
		return false
	}
	_, ok := s.statuses[normalize(status)]
	return ok
}

// Len returns the number of distinct statuses
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.statuses)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
