package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, logging.ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, logging.ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, logging.ParseLevel("chatty"))
}

func TestInitLogger(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("logging.level", "warn")
	logger, err := logging.InitLogger(config.NewFromViper(v))
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestInitConsoleLogger(t *testing.T) {
	logger, err := logging.InitConsoleLogger(true, false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = logging.InitConsoleLogger(false, true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
