package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storehub/backend/internal/infrastructure/config"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []config.TelemetryConfig{
		{Enabled: false, LogsEnabled: true, ServiceName: "storehub"},
		{Enabled: true, LogsEnabled: false, ServiceName: "storehub"},
	} {
		provider, err := NewLoggerProvider(ctx, cfg)
		require.NoError(t, err)
		assert.False(t, provider.IsEnabled())
		assert.NoError(t, provider.Shutdown(ctx))
	}
}

func TestLoggerProvider_BridgeDisabledReturnsBase(t *testing.T) {
	provider, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)

	base := zap.NewNop()
	assert.Same(t, base, provider.Bridge(base))

	var nilProvider *LoggerProvider
	assert.False(t, nilProvider.IsEnabled())
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, level: zapcore.WarnLevel}
	log := zap.New(core)

	log.Info("dropped")
	log.Warn("kept", zap.String("k", "v"))
	log.With(zap.Uint("store_id", 3)).Debug("dropped too")
	log.With(zap.Uint("store_id", 3)).Error("kept too")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "kept too", entries[1].Message)
	assert.Equal(t, uint64(3), entries[1].ContextMap()["store_id"])

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
}
