/*
Package poll runs the periodic half of a polling workload.

The cache answers "many callers want this key right now"; the poller covers
"somebody should keep this key warm". It calls one key's producer through a
group on a fixed schedule, so interactive callers using a throttle interval
keep hitting recent results without ever paying for the fetch themselves.
*/
package poll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cobaltbay/callcache/types"
)

// Runner is the slice of a call-cache group the poller needs. *Group
// satisfies it.
type Runner interface {
	Do(ctx context.Context, key string, producer types.Producer, opts ...types.CallOption) (any, error)
}

// Option configures a Poller at construction time.
type Option func(*Poller)

// WithLogger replaces the logger poll failures are reported through. The
// default is slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(p *Poller) {
		if log != nil {
			p.log = log
		}
	}
}

// WithTimeout puts a deadline on each tick's producer context. Zero, the
// default, polls without one.
func WithTimeout(d time.Duration) Option {
	return func(p *Poller) { p.timeout = d }
}

// WithCallOptions sets the per-call options every tick passes to Do. A small
// MinInterval here protects the backend when ticks overlap with interactive
// callers that also invoke.
func WithCallOptions(opts ...types.CallOption) Option {
	return func(p *Poller) { p.callOpts = opts }
}

/*
Poller keeps one key warm: an immediate first call, then one call per
interval, each going through the runner so it coalesces with whatever
interactive callers are doing. Failures are logged and the loop carries on;
the next tick tries again.
*/
type Poller struct {
	runner   Runner
	key      string
	producer types.Producer
	every    time.Duration
	callOpts []types.CallOption

	log     *slog.Logger
	timeout time.Duration

	stop context.CancelFunc
	done chan struct{}
}

// New builds a poller for one key. The interval must be positive by the
// time Start runs.
func New(runner Runner, key string, producer types.Producer, every time.Duration, opts ...Option) *Poller {
	p := &Poller{
		runner:   runner,
		key:      key,
		producer: producer,
		every:    every,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Start launches the loop. The first call happens right away, then once per
// interval until ctx is cancelled or Stop is called. Call Start once.
func (p *Poller) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.stop = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		p.tick(runCtx)
		ticker := time.NewTicker(p.every)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				p.tick(runCtx)
			}
		}
	}()
}

func (p *Poller) tick(ctx context.Context) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	_, err := p.runner.Do(ctx, p.key, p.producer, p.callOpts...)
	if err != nil && !errors.Is(err, context.Canceled) {
		p.log.Error("poll failed", slog.String("key", p.key), slog.Any("error", err))
	}
}

// Stop cancels the loop and waits for it to exit. Stopping a poller that
// never started is safe and does nothing.
func (p *Poller) Stop() {
	if p.stop == nil {
		return
	}
	p.stop()
	<-p.done
}
