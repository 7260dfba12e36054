/*
Package otelmetrics exports a group's counters through OpenTelemetry.

The core reports through the narrow types.Metrics interface and stays free
of any metrics dependency; this package is the adapter an instrumented
service plugs in:

	m, err := otelmetrics.New()
	if err != nil {
		return err
	}
	g := callcache.New(callcache.WithMetrics(m))
*/
package otelmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/cobaltbay/callcache/types"
)

const meterName = "github.com/cobaltbay/callcache/otelmetrics"

// Option configures the adapter.
type Option func(*options)

type options struct {
	provider metric.MeterProvider
}

// WithMeterProvider sets the provider the counters are created from. The
// default is the otel global provider.
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

// Metrics implements types.Metrics on OpenTelemetry Int64Counters.
type Metrics struct {
	invocations   metric.Int64Counter
	coalesced     metric.Int64Counter
	throttled     metric.Int64Counter
	failures      metric.Int64Counter
	refreshes     metric.Int64Counter
	invalidations metric.Int64Counter
}

var _ types.Metrics = (*Metrics)(nil)

// New creates the counters and returns the adapter.
func New(opts ...Option) (*Metrics, error) {
	o := options{provider: otel.GetMeterProvider()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	meter := o.provider.Meter(meterName)

	m := &Metrics{}
	var err error

	m.invocations, err = meter.Int64Counter("callcache.invocations_total",
		metric.WithDescription("Producer runs started."))
	if err != nil {
		return nil, fmt.Errorf("create invocations counter: %w", err)
	}
	m.coalesced, err = meter.Int64Counter("callcache.coalesced_total",
		metric.WithDescription("Calls that joined an in-flight run instead of starting one."))
	if err != nil {
		return nil, fmt.Errorf("create coalesced counter: %w", err)
	}
	m.throttled, err = meter.Int64Counter("callcache.throttled_total",
		metric.WithDescription("Calls served a recorded result inside their throttle interval."))
	if err != nil {
		return nil, fmt.Errorf("create throttled counter: %w", err)
	}
	m.failures, err = meter.Int64Counter("callcache.failures_total",
		metric.WithDescription("Producer runs that returned an error."))
	if err != nil {
		return nil, fmt.Errorf("create failures counter: %w", err)
	}
	m.refreshes, err = meter.Int64Counter("callcache.refreshes_total",
		metric.WithDescription("Background refresh runs executed."))
	if err != nil {
		return nil, fmt.Errorf("create refreshes counter: %w", err)
	}
	m.invalidations, err = meter.Int64Counter("callcache.invalidations_total",
		metric.WithDescription("Entries removed by clears, forgets and sweeps."))
	if err != nil {
		return nil, fmt.Errorf("create invalidations counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) Invoked() {
	m.invocations.Add(context.Background(), 1)
}

func (m *Metrics) Coalesced() {
	m.coalesced.Add(context.Background(), 1)
}

func (m *Metrics) Throttled() {
	m.throttled.Add(context.Background(), 1)
}

func (m *Metrics) Failed() {
	m.failures.Add(context.Background(), 1)
}

func (m *Metrics) Refreshed() {
	m.refreshes.Add(context.Background(), 1)
}

func (m *Metrics) Invalidated(n int) {
	if n <= 0 {
		return
	}
	m.invalidations.Add(context.Background(), int64(n))
}
