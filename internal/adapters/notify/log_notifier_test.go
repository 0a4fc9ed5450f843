package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mikey/contract-sentinel/internal/adapters/notify"
)

func TestLogNotifier(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	n := notify.NewLogNotifier(zap.New(obs))

	require.NoError(t, n.Notify(context.Background(), alertReport()))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Portfolio report", entries[0].Message)
	assert.Equal(t, int64(2), entries[0].ContextMap()["pending"])
	assert.Equal(t, "Critical pending contract", entries[1].Message)
	assert.Equal(t, "Bridge works", entries[1].ContextMap()["title"])
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, notify.NoopNotifier{}.Notify(context.Background(), alertReport()))
}
