package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/storehub/backend/internal/infrastructure/config"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(config.TelemetryConfig{
		ServiceName:            "storehub",
		ProfilingServerAddress: "http://localhost:4040",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())

	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("attaches non-empty labels", func(t *testing.T) {
		var route, store string
		var hasController bool
		WithProfilingLabels(context.Background(), map[string]string{
			ProfilingLabelRoute:      "/api/v1/contacts",
			ProfilingLabelStoreID:    "2",
			ProfilingLabelController: "",
		}, func(ctx context.Context) {
			route, _ = pprof.Label(ctx, ProfilingLabelRoute)
			store, _ = pprof.Label(ctx, ProfilingLabelStoreID)
			_, hasController = pprof.Label(ctx, ProfilingLabelController)
		})
		assert.Equal(t, "/api/v1/contacts", route)
		assert.Equal(t, "2", store)
		assert.False(t, hasController)
	})

	t.Run("runs fn directly without labels", func(t *testing.T) {
		called := false
		WithProfilingLabels(context.Background(), map[string]string{ProfilingLabelMethod: ""}, func(ctx context.Context) {
			called = true
			_, ok := pprof.Label(ctx, ProfilingLabelMethod)
			assert.False(t, ok)
		})
		assert.True(t, called)
	})
}
