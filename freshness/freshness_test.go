package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cobaltbay/callcache/types"
)

func agedEntry(now time.Time, age time.Duration) *types.Entry {
	return &types.Entry{Key: "vault:1", Value: 1, ResolvedAt: now.Add(-age)}
}

func TestIntervalFreshness(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		age      time.Duration
		interval time.Duration
		fresh    bool
	}{
		{"zero interval disables throttling", 0, 0, false},
		{"zero interval even for an aged entry", time.Hour, 0, false},
		{"negative interval disables throttling", time.Second, -time.Second, false},
		{"younger than the interval", 2 * time.Second, 10 * time.Second, true},
		{"just resolved", 0, 10 * time.Second, true},
		{"aged exactly the interval", 10 * time.Second, 10 * time.Second, false},
		{"older than the interval", 11 * time.Second, 10 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interval{}.Fresh(agedEntry(now, tt.age), now, tt.interval)
			assert.Equal(t, tt.fresh, got)
		})
	}
}

func TestNeverIsAlwaysStale(t *testing.T) {
	now := time.Now()
	assert.False(t, Never{}.Fresh(agedEntry(now, 0), now, time.Hour))
	assert.False(t, Never{}.Fresh(agedEntry(now, time.Hour), now, time.Hour))
}
