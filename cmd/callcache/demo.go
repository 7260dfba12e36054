package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/cobaltbay/callcache"
	"github.com/cobaltbay/callcache/poll"
	"github.com/cobaltbay/callcache/refresh"
	"github.com/cobaltbay/callcache/types"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Step-by-step walkthrough against a simulated slow backend",
	Run: func(cmd *cobra.Command, args []string) {
		runDemo(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

var errLedgerDown = errors.New("ledger unavailable")

func runDemo(ctx context.Context) {
	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("SHARDS          : 4")
	fmt.Println("REFRESH POLICY  : INLINE")
	fmt.Println("BACKEND LATENCY : 120ms per fetch")

	metrics := &counts{}
	g := callcache.New(
		callcache.WithShards(4),
		callcache.WithMetrics(metrics),
		callcache.WithRefresh(refresh.Inline{}),
	)

	// ---------------- Simulated Backend ----------------
	var backendCalls atomic.Int64
	fetch := func(label string, val any) types.Producer {
		return func(ctx context.Context) (any, error) {
			backendCalls.Add(1)
			fmt.Println("BACKEND → fetch", label)
			select {
			case <-time.After(120 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return val, nil
		}
	}

	// ====================================================
	fmt.Println("\n==================== 1) COALESCING ====================")

	profile := func(ctx context.Context) (string, error) {
		backendCalls.Add(1)
		fmt.Println("BACKEND → fetch profile:ada")
		time.Sleep(120 * time.Millisecond)
		return "Ada Nwosu <member #1041>", nil
	}

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			v, _ := callcache.Do(ctx, g, "profile:ada", profile)
			fmt.Printf("GOROUTINE-%d → profile:ada = %v\n", id, v)
		}(i)
	}
	wg.Wait()
	fmt.Println("CACHE  → backend calls so far =", backendCalls.Load())

	// ====================================================
	fmt.Println("\n==================== 2) THROTTLING ====================")

	for i := 0; i < 3; i++ {
		v, _ := g.Do(ctx, "vault:ada:checking", fetch("vault:ada:checking", 148210),
			callcache.WithMinInterval(2*time.Second))
		fmt.Printf("CALL-%d → vault:ada:checking = %v cents\n", i, v)
	}
	fmt.Println("CACHE  → backend calls so far =", backendCalls.Load())

	// ====================================================
	fmt.Println("\n==================== 3) ERROR PROPAGATION ====================")

	failing := func(ctx context.Context) (any, error) {
		fmt.Println("BACKEND → vault:9:balance lookup FAILS")
		time.Sleep(80 * time.Millisecond)
		return nil, errLedgerDown
	}
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := g.Do(ctx, "vault:9:balance", failing)
			fmt.Printf("GOROUTINE-%d → vault:9:balance error = %v\n", id, err)
		}(i)
	}
	wg.Wait()

	fmt.Println("CACHE  → error was not cached, next call hits the backend:")
	v, _ := g.Do(ctx, "vault:9:balance", fetch("vault:9:balance", 975))
	fmt.Println("CALL   → vault:9:balance =", v, "cents")

	// ====================================================
	fmt.Println("\n==================== 4) REFRESH-AHEAD ====================")

	before := backendCalls.Load()
	rate := func(ctx context.Context) (any, error) {
		return fetch("rates:fx", 1.0842)(ctx)
	}
	v, _ = g.Do(ctx, "rates:fx", rate,
		callcache.WithMinInterval(10*time.Second), callcache.WithRefreshAfter(50*time.Millisecond))
	fmt.Println("CALL-0 → rates:fx =", v)

	time.Sleep(100 * time.Millisecond)

	v, _ = g.Do(ctx, "rates:fx", rate,
		callcache.WithMinInterval(10*time.Second), callcache.WithRefreshAfter(50*time.Millisecond))
	fmt.Println("CALL-1 → rates:fx =", v, "(served cached, refresh ran alongside)")
	fmt.Println("CACHE  → backend calls in this section =", backendCalls.Load()-before)

	// ====================================================
	fmt.Println("\n==================== 5) POLLER ====================")

	p := poll.New(g, "rates:usd-eur", fetch("rates:usd-eur", 0.9221), 150*time.Millisecond)
	p.Start(ctx)
	time.Sleep(400 * time.Millisecond)

	v, _ = g.Do(ctx, "rates:usd-eur", fetch("rates:usd-eur", 0.9221),
		callcache.WithMinInterval(5*time.Second))
	fmt.Println("CALL   → rates:usd-eur =", v, "(warm, no waiting)")
	p.Stop()

	// ====================================================
	fmt.Println("\n==================== 6) LOGOUT INVALIDATION ====================")

	g.Do(ctx, "vault:ada:savings", fetch("vault:ada:savings", 902144))

	removed := g.ClearPrefix("vault:ada:")
	fmt.Println("CACHE  → ClearPrefix(vault:ada:) removed", removed, "entries")
	fmt.Println("CACHE  → entries still cached =", g.Len())

	fmt.Println("CACHE  → next vault read hits the backend again:")
	v, _ = g.Do(ctx, "vault:ada:checking", fetch("vault:ada:checking", 148210))
	fmt.Println("CALL   → vault:ada:checking =", v, "cents")

	// ====================================================
	metrics.Print()

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	g.Close()
	fmt.Println("SYSTEM → group closed cleanly")
}
