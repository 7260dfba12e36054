package otelmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/cobaltbay/callcache"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != meterName {
			continue
		}
		for _, m := range sm.Metrics {
			data, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range data.DataPoints {
				total += dp.Value
			}
			sums[m.Name] = total
		}
	}
	return sums
}

func TestCountersFlowThroughTheProvider(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := New(WithMeterProvider(provider))
	require.NoError(t, err)

	m.Invoked()
	m.Invoked()
	m.Coalesced()
	m.Throttled()
	m.Failed()
	m.Refreshed()
	m.Invalidated(3)
	m.Invalidated(0)

	sums := collectSums(t, reader)
	assert.Equal(t, int64(2), sums["callcache.invocations_total"])
	assert.Equal(t, int64(1), sums["callcache.coalesced_total"])
	assert.Equal(t, int64(1), sums["callcache.throttled_total"])
	assert.Equal(t, int64(1), sums["callcache.failures_total"])
	assert.Equal(t, int64(1), sums["callcache.refreshes_total"])
	assert.Equal(t, int64(3), sums["callcache.invalidations_total"])
}

func TestDefaultProviderComesFromTheGlobal(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	require.NotNil(t, m)
	m.Invoked()
}

func TestAdapterWiredIntoAGroup(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := New(WithMeterProvider(provider))
	require.NoError(t, err)

	g := callcache.New(callcache.WithMetrics(m))
	defer g.Close()
	ctx := context.Background()

	_, err = g.Do(ctx, "vault:1041:checking", func(ctx context.Context) (any, error) {
		return 148210, nil
	})
	require.NoError(t, err)
	_, err = g.Do(ctx, "vault:1041:checking", func(ctx context.Context) (any, error) {
		return 148210, nil
	}, callcache.WithMinInterval(time.Minute))
	require.NoError(t, err)
	g.Clear()

	sums := collectSums(t, reader)
	assert.Equal(t, int64(1), sums["callcache.invocations_total"])
	assert.Equal(t, int64(1), sums["callcache.throttled_total"])
	assert.Equal(t, int64(1), sums["callcache.invalidations_total"])
}
