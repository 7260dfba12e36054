package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cobaltbay/callcache"
)

var benchFlags struct {
	workers      int
	members      int
	duration     time.Duration
	minInterval  time.Duration
	backendDelay time.Duration
	shards       int
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Hammer one group with concurrent pollers and report absorption",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadBenchConfig()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("workers") {
			cfg.Workers = benchFlags.workers
		}
		if f.Changed("members") {
			cfg.Members = benchFlags.members
		}
		if f.Changed("duration") {
			cfg.Duration = benchFlags.duration
		}
		if f.Changed("min-interval") {
			cfg.MinInterval = benchFlags.minInterval
		}
		if f.Changed("backend-delay") {
			cfg.BackendDelay = benchFlags.backendDelay
		}
		if f.Changed("shards") {
			cfg.Shards = benchFlags.shards
		}
		return runBench(cfg)
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	f := benchCmd.Flags()
	f.IntVar(&benchFlags.workers, "workers", 8, "concurrent workers")
	f.IntVar(&benchFlags.members, "members", 50, "distinct member keys")
	f.DurationVar(&benchFlags.duration, "duration", 5*time.Second, "how long to run")
	f.DurationVar(&benchFlags.minInterval, "min-interval", 100*time.Millisecond, "per-call throttle interval")
	f.DurationVar(&benchFlags.backendDelay, "backend-delay", 5*time.Millisecond, "simulated backend latency")
	f.IntVar(&benchFlags.shards, "shards", 4, "group shard count")
}

/*
runBench simulates the target workload: a fixed member population, every
worker repeatedly picking a random member's vault and fetching its balance
through one shared group. The interesting output is the ratio of requests to
producer invocations, which is the backend traffic the cache absorbed.
*/
func runBench(cfg benchConfig) error {
	metrics := &counts{}
	g := callcache.New(
		callcache.WithShards(cfg.Shards),
		callcache.WithMetrics(metrics),
	)
	defer g.Close()

	keys := make([]string, cfg.Members)
	for i := range keys {
		keys[i] = "vault:" + uuid.NewString()
	}

	producer := func(ctx context.Context) (any, error) {
		select {
		case <-time.After(cfg.BackendDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return rand.Int63n(1_000_000), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	var requests atomic.Int64
	start := time.Now()

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		eg.Go(func() error {
			for {
				select {
				case <-egCtx.Done():
					return nil
				default:
				}
				key := keys[rand.Intn(len(keys))]
				_, err := g.Do(egCtx, key, producer, callcache.WithMinInterval(cfg.MinInterval))
				if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
					return err
				}
				requests.Add(1)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println("\n==================== BENCH ====================")
	fmt.Printf("WORKERS      : %d\n", cfg.Workers)
	fmt.Printf("MEMBERS      : %d\n", cfg.Members)
	fmt.Printf("MIN INTERVAL : %s\n", cfg.MinInterval)
	fmt.Printf("BACKEND      : %s per fetch\n", cfg.BackendDelay)
	fmt.Printf("ELAPSED      : %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("REQUESTS     : %d\n", requests.Load())
	fmt.Printf("REQ/S        : %.0f\n", float64(requests.Load())/elapsed.Seconds())
	metrics.Print()
	return nil
}
