package instance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ceyewan/genesis-discovery/metrics"
)

func newTestMeter(t *testing.T) (metrics.Meter, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	meter, err := metrics.New(&metrics.Config{Enabled: true, ServiceName: "instance-test"}, metrics.WithReader(reader))
	require.NoError(t, err)
	t.Cleanup(func() { _ = meter.Shutdown(context.Background()) })
	return meter, reader
}

// sumByLabel 汇总计数器各数据点，按指定标签的取值分组
func sumByLabel(t *testing.T, reader *sdkmetric.ManualReader, name, label string) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(label))
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func dirtyGauge(t *testing.T, reader *sdkmetric.ManualReader) float64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if g, ok := m.Data.(metricdata.Gauge[float64]); ok && m.Name == MetricDirtyDescriptors {
				require.Len(t, g.DataPoints, 1)
				return g.DataPoints[0].Value
			}
		}
	}
	return 0
}

func TestDescriptorStats(t *testing.T) {
	meter, reader := newTestMeter(t)
	d := newTestDescriptor(t, WithMeter(meter))

	assert.Equal(t, map[string]int64{"ORDER-SERVICE": 1}, sumByLabel(t, reader, MetricDescriptorsBuilt, "app"))

	d.SetStatus(StatusDown)
	d.SetStatus(StatusDown)
	d.SetStatus(StatusUp)
	assert.Equal(t, map[string]int64{"DOWN": 1, "UP": 1}, sumByLabel(t, reader, MetricStatusChanges, "to"))
	assert.Equal(t, 1.0, dirtyGauge(t, reader))

	asOf, _ := d.DirtyAsOf()
	d.MarkDirty()
	assert.False(t, d.ClearDirtyIfStale(asOf))
	latest, _ := d.DirtyAsOf()
	assert.True(t, d.ClearDirtyIfStale(latest))

	assert.Equal(t, map[string]int64{"stale": 1, "cleared": 1}, sumByLabel(t, reader, MetricDirtyClears, "result"))
	assert.Equal(t, 0.0, dirtyGauge(t, reader))
}

func TestDescriptorStats_Disabled(t *testing.T) {
	d := newTestDescriptor(t, WithMeter(metrics.Discard()))
	d.SetStatus(StatusDown)
	assert.True(t, d.ClearDirtyIfStale(d.LastDirtyTimestamp()))

	plain := newTestDescriptor(t)
	assert.Nil(t, plain.stats)
	plain.MarkDirty()
	assert.True(t, plain.IsDirty())
}

func TestDescriptorStats_CloneNotTracked(t *testing.T) {
	meter, reader := newTestMeter(t)
	d := newTestDescriptor(t, WithMeter(meter))
	d.MarkDirty()
	require.Equal(t, 1.0, dirtyGauge(t, reader))

	c := d.Clone()
	assert.True(t, c.IsDirty())
	assert.Nil(t, c.stats)
	assert.Equal(t, 1.0, dirtyGauge(t, reader))

	assert.True(t, c.ClearDirtyIfStale(c.LastDirtyTimestamp()))
	c.SetStatus(StatusDown)
	assert.Equal(t, 1.0, dirtyGauge(t, reader))
	assert.Equal(t, map[string]int64{}, sumByLabel(t, reader, MetricDirtyClears, "result"))

	assert.True(t, d.ClearDirtyIfStale(d.LastDirtyTimestamp()))
	assert.Equal(t, 0.0, dirtyGauge(t, reader))
}
