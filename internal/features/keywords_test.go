package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/contract-sentinel/internal/features"
)

func TestMatches(t *testing.T) {
	assert.True(t, features.Matches(features.FamilyNegotiation, "renegotiating the terms"))
	assert.True(t, features.Matches(features.FamilyPending, "awaiting signature"))
	assert.False(t, features.Matches(features.FamilyPending, "executed"))
	assert.False(t, features.Matches(features.FamilyUrgent, ""))
	// callers lower-case first
	assert.False(t, features.Matches(features.FamilyUrgent, "URGENT"))
	assert.True(t, features.Matches(features.FamilyUrgent, features.Lower("URGENT")))
}
