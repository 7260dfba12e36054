package poll

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltbay/callcache"
	"github.com/cobaltbay/callcache/types"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls int
	key   string
	opts  int
}

func (f *fakeRunner) Do(ctx context.Context, key string, producer types.Producer, opts ...types.CallOption) (any, error) {
	f.mu.Lock()
	f.calls++
	f.key = key
	f.opts = len(opts)
	f.mu.Unlock()
	return producer(ctx)
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func okProducer(ctx context.Context) (any, error) {
	return 1.0842, nil
}

func TestPollerCallsImmediatelyThenOnEveryTick(t *testing.T) {
	f := &fakeRunner{}
	p := New(f, "rates:fx", okProducer, 20*time.Millisecond,
		WithCallOptions(func(c *types.CallConfig) { c.MinInterval = time.Millisecond }))

	p.Start(context.Background())
	require.Eventually(t, func() bool { return f.count() >= 3 },
		time.Second, 5*time.Millisecond)
	p.Stop()

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "rates:fx", f.key)
	assert.Equal(t, 1, f.opts, "the configured call options must reach the runner")
}

func TestStopHaltsTheLoop(t *testing.T) {
	f := &fakeRunner{}
	p := New(f, "rates:fx", okProducer, 15*time.Millisecond)

	p.Start(context.Background())
	require.Eventually(t, func() bool { return f.count() >= 2 },
		time.Second, 5*time.Millisecond)
	p.Stop()

	settled := f.count()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, f.count())
}

func TestStopWithoutStartIsSafe(t *testing.T) {
	p := New(&fakeRunner{}, "rates:fx", okProducer, time.Second)
	p.Stop()
}

func TestPerTickTimeout(t *testing.T) {
	t.Run("with timeout the producer sees a deadline", func(t *testing.T) {
		f := &fakeRunner{}
		var sawDeadline atomic.Bool
		p := New(f, "rates:fx", func(ctx context.Context) (any, error) {
			_, ok := ctx.Deadline()
			sawDeadline.Store(ok)
			return 1, nil
		}, 20*time.Millisecond, WithTimeout(50*time.Millisecond))

		p.Start(context.Background())
		require.Eventually(t, func() bool { return f.count() >= 1 },
			time.Second, 5*time.Millisecond)
		p.Stop()

		assert.True(t, sawDeadline.Load())
	})

	t.Run("without timeout there is none", func(t *testing.T) {
		f := &fakeRunner{}
		var sawDeadline atomic.Bool
		p := New(f, "rates:fx", func(ctx context.Context) (any, error) {
			_, ok := ctx.Deadline()
			sawDeadline.Store(ok)
			return 1, nil
		}, 20*time.Millisecond)

		p.Start(context.Background())
		require.Eventually(t, func() bool { return f.count() >= 1 },
			time.Second, 5*time.Millisecond)
		p.Stop()

		assert.False(t, sawDeadline.Load())
	})
}

func TestFailuresAreLoggedAndPollingContinues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	f := &fakeRunner{}
	p := New(f, "rates:fx", func(ctx context.Context) (any, error) {
		return nil, errors.New("feed offline")
	}, 15*time.Millisecond, WithLogger(logger))

	p.Start(context.Background())
	require.Eventually(t, func() bool { return f.count() >= 2 },
		time.Second, 5*time.Millisecond)
	p.Stop()

	out := buf.String()
	assert.Contains(t, out, "poll failed")
	assert.Contains(t, out, "rates:fx")
	assert.Contains(t, out, "feed offline")
}

func TestCancelledContextStopsQuietly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx, cancel := context.WithCancel(context.Background())
	entered := make(chan struct{}, 1)

	f := &fakeRunner{}
	p := New(f, "rates:fx", func(ctx context.Context) (any, error) {
		entered <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}, 10*time.Millisecond, WithLogger(logger))

	p.Start(ctx)
	<-entered
	cancel()
	p.Stop()

	assert.Zero(t, buf.Len(), "a shutdown is not a poll failure")
}

//
// ================= WITH A REAL GROUP =================
//

func TestPollerKeepsAGroupWarmForThrottledReaders(t *testing.T) {
	g := callcache.New()
	defer g.Close()

	var fetches atomic.Int64
	p := New(g, "rates:fx", func(ctx context.Context) (any, error) {
		return fetches.Add(1), nil
	}, 20*time.Millisecond)

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return g.Len() == 1 },
		time.Second, 5*time.Millisecond)

	var interactiveRan atomic.Bool
	v, err := g.Do(context.Background(), "rates:fx", func(ctx context.Context) (any, error) {
		interactiveRan.Store(true)
		return nil, errors.New("should be served from cache")
	}, callcache.WithMinInterval(10*time.Second))

	require.NoError(t, err)
	assert.False(t, interactiveRan.Load(), "the reader rides on the poller's result")
	assert.GreaterOrEqual(t, v.(int64), int64(1))
}
