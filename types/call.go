package types

import "time"

/*
CallConfig carries the per-call settings of one Do invocation.

These are per call, not per group: two call sites may ask for the same key
with different intervals, and each is judged against its own settings. A zero
CallConfig means "no throttling, no refresh-ahead", which makes Do a pure
deduplicator for that call.
*/
type CallConfig struct {

	// MinInterval is the throttle interval: if the last success for the key
	// is younger than this, the cached value is returned and the producer is
	// not invoked or joined. Zero or negative disables throttling.
	MinInterval time.Duration

	// RefreshAfter is the entry age at which a throttled read also schedules
	// one background re-invocation, so the next reads stay both cheap and
	// reasonably fresh. Zero or negative disables refresh-ahead. It only has
	// an effect on throttled reads, so it is meaningful when it is smaller
	// than MinInterval.
	RefreshAfter time.Duration
}

// CallOption mutates a CallConfig. Constructors live in the root package
// (WithMinInterval, WithRefreshAfter) so call sites read naturally.
type CallOption func(*CallConfig)

// ApplyCallOptions folds options into a zero config.
func ApplyCallOptions(opts []CallOption) CallConfig {
	var cfg CallConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
