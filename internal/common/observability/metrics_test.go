package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestObservability_RecordsTransitions(t *testing.T) {
	reader := metric.NewManualReader()
	obs := newWithProvider(metric.NewMeterProvider(metric.WithReader(reader)), "wizard-test")

	ctx := context.Background()
	obs.RecordTransition(ctx, "identity", "category_select")
	obs.RecordTransition(ctx, "identity", "category_select")
	obs.RecordStepDuration(ctx, "identity", 250*time.Millisecond)
	obs.RecordRestart(ctx)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
		if m.Name == "wizard.step.transitions" {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(2), sum.DataPoints[0].Value)
		}
	}
	assert.True(t, names["wizard.step.transitions"])
	assert.True(t, names["wizard.step.duration"])
	assert.True(t, names["wizard.restarts"])

	obs.Shutdown()
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordTransition(context.Background(), "a", "b")
		obs.RecordRestart(context.Background())
		obs.Shutdown()
	})
}
