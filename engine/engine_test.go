package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cobaltbay/callcache/freshness"
	"github.com/cobaltbay/callcache/refresh"
	"github.com/cobaltbay/callcache/types"
)

func resolvedAgo(age time.Duration, now time.Time) *types.Entry {
	return &types.Entry{Key: "vault:1", Value: 1, ResolvedAt: now.Add(-age)}
}

func TestNewNormalizesNilCollaborators(t *testing.T) {
	e := New(nil, nil, nil)

	assert.IsType(t, freshness.Interval{}, e.Freshness)
	assert.IsType(t, types.NoopMetrics{}, e.Metrics)
	assert.Nil(t, e.Refresh, "no refresh policy means refresh-ahead stays off")
}

func TestNewKeepsProvidedCollaborators(t *testing.T) {
	e := New(freshness.Never{}, refresh.Inline{}, types.NoopMetrics{})

	assert.IsType(t, freshness.Never{}, e.Freshness)
	assert.IsType(t, refresh.Inline{}, e.Refresh)
}

func TestFreshDelegatesToTheStrategy(t *testing.T) {
	now := time.Now()
	e := New(freshness.Interval{}, nil, nil)

	assert.True(t, e.Fresh(resolvedAgo(time.Second, now), now, time.Minute))
	assert.False(t, e.Fresh(resolvedAgo(time.Second, now), now, 0))

	e = New(freshness.Never{}, nil, nil)
	assert.False(t, e.Fresh(resolvedAgo(time.Second, now), now, time.Minute))
}

func TestShouldRefresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		policy refresh.Policy
		age    time.Duration
		after  time.Duration
		want   bool
	}{
		{"no policy", nil, time.Minute, time.Second, false},
		{"refresh-ahead not requested", refresh.Inline{}, time.Minute, 0, false},
		{"entry still young", refresh.Inline{}, time.Second, time.Minute, false},
		{"entry old enough", refresh.Inline{}, time.Minute, time.Second, true},
		{"aged exactly the threshold", refresh.Inline{}, time.Second, time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil, tt.policy, nil)
			cfg := types.CallConfig{MinInterval: time.Hour, RefreshAfter: tt.after}
			assert.Equal(t, tt.want, e.ShouldRefresh(resolvedAgo(tt.age, now), now, cfg))
		})
	}
}
