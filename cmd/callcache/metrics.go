package main

import (
	"fmt"
	"sync"
)

// ================= METRICS =================

// counts is a plain counting implementation of types.Metrics for the demo
// and bench reports.
type counts struct {
	mu          sync.Mutex
	invoked     int
	coalesced   int
	throttled   int
	failed      int
	refreshed   int
	invalidated int
}

func (c *counts) Invoked()   { c.mu.Lock(); c.invoked++; c.mu.Unlock() }
func (c *counts) Coalesced() { c.mu.Lock(); c.coalesced++; c.mu.Unlock() }
func (c *counts) Throttled() { c.mu.Lock(); c.throttled++; c.mu.Unlock() }
func (c *counts) Failed()    { c.mu.Lock(); c.failed++; c.mu.Unlock() }
func (c *counts) Refreshed() { c.mu.Lock(); c.refreshed++; c.mu.Unlock() }

func (c *counts) Invalidated(n int) {
	c.mu.Lock()
	c.invalidated += n
	c.mu.Unlock()
}

func (c *counts) Print() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("INVOKED     : %d\n", c.invoked)
	fmt.Printf("COALESCED   : %d\n", c.coalesced)
	fmt.Printf("THROTTLED   : %d\n", c.throttled)
	fmt.Printf("FAILED      : %d\n", c.failed)
	fmt.Printf("REFRESHED   : %d\n", c.refreshed)
	fmt.Printf("INVALIDATED : %d\n", c.invalidated)
}
