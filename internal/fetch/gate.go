package fetch

import (
	"context"
	"sync"
)

// Gate bounds how many requests are in flight at once. Excess callers queue
// FIFO and are admitted one-for-one as in-flight requests release. There is
// no priority here; the artwork service tolerates bursts, it just caps them.
type Gate struct {
	mu       sync.Mutex
	limit    int
	inflight int
	waiters  []chan struct{}
}

// NewGate builds a gate admitting at most limit concurrent holders.
func NewGate(limit int) *Gate {
	if limit <= 0 {
		limit = 1
	}
	return &Gate{limit: limit}
}

// Acquire blocks until a slot is free or ctx is cancelled. Every successful
// Acquire must be paired with Release.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	if g.inflight < g.limit {
		g.inflight++
		g.mu.Unlock()
		return nil
	}
	ready := make(chan struct{})
	g.waiters = append(g.waiters, ready)
	g.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		for i, w := range g.waiters {
			if w == ready {
				g.waiters = append(g.waiters[:i], g.waiters[i+1:]...)
				g.mu.Unlock()
				return ctx.Err()
			}
		}
		// Admission raced the cancellation; hand the slot to the next waiter.
		g.releaseLocked()
		g.mu.Unlock()
		return ctx.Err()
	}
}

// Release frees the caller's slot, admitting the oldest waiter if any.
func (g *Gate) Release() {
	g.mu.Lock()
	g.releaseLocked()
	g.mu.Unlock()
}

// releaseLocked transfers the slot to the head waiter without touching the
// in-flight count; the count only drops when nobody is queued. Callers hold
// g.mu.
func (g *Gate) releaseLocked() {
	if len(g.waiters) > 0 {
		next := g.waiters[0]
		g.waiters = g.waiters[1:]
		close(next)
		return
	}
	if g.inflight > 0 {
		g.inflight--
	}
}

// InFlight reports the current number of slot holders.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inflight
}
