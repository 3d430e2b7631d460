package fetch

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Priority orders callers waiting on the limiter. It never changes the rate
// itself; a high-priority request still respects the global interval.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

type limiterWaiter struct {
	priority Priority
	seq      uint64
	ready    chan struct{}
}

// Limiter enforces one global minimum interval between admissions across all
// callers. Waiting callers are admitted highest priority first, FIFO within a
// priority. All state lives on the instance so tests never leak into each
// other.
type Limiter struct {
	interval time.Duration

	mu        sync.Mutex
	last      time.Time
	nextSeq   uint64
	waiters   []*limiterWaiter
	admitting bool
}

// NewLimiter builds a limiter with the given minimum spacing between
// admissions.
func NewLimiter(interval time.Duration) *Limiter {
	if interval < 0 {
		interval = 0
	}
	return &Limiter{interval: interval}
}

// Interval returns the configured minimum spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the caller is admitted or ctx is cancelled. A caller
// cancelled before admission is removed from the queue without consuming a
// slot.
func (l *Limiter) Wait(ctx context.Context, priority Priority) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := &limiterWaiter{priority: priority, ready: make(chan struct{})}

	l.mu.Lock()
	w.seq = l.nextSeq
	l.nextSeq++
	l.enqueue(w)
	if !l.admitting {
		l.admitting = true
		go l.admitLoop()
	}
	l.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		removed := l.remove(w)
		l.mu.Unlock()
		if !removed {
			// Admission raced the cancellation; the interval slot is already
			// spent, which errs on the side of staying under the rate.
			return ctx.Err()
		}
		return ctx.Err()
	}
}

// enqueue inserts preserving priority order, FIFO within a priority.
// Callers hold l.mu.
func (l *Limiter) enqueue(w *limiterWaiter) {
	at := sort.Search(len(l.waiters), func(i int) bool {
		if l.waiters[i].priority != w.priority {
			return l.waiters[i].priority < w.priority
		}
		return l.waiters[i].seq > w.seq
	})
	l.waiters = append(l.waiters, nil)
	copy(l.waiters[at+1:], l.waiters[at:])
	l.waiters[at] = w
}

// remove reports whether w was still queued. Callers hold l.mu.
func (l *Limiter) remove(w *limiterWaiter) bool {
	for i, queued := range l.waiters {
		if queued == w {
			l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// admitLoop releases one waiter per interval until the queue drains. Exactly
// one loop runs at a time; the admitting flag is cleared under the same lock
// that observes the empty queue.
func (l *Limiter) admitLoop() {
	for {
		l.mu.Lock()
		if len(l.waiters) == 0 {
			l.admitting = false
			l.mu.Unlock()
			return
		}
		wait := l.interval - time.Since(l.last)
		if wait <= 0 {
			w := l.waiters[0]
			l.waiters = l.waiters[1:]
			l.last = time.Now()
			close(w.ready)
			l.mu.Unlock()
			continue
		}
		l.mu.Unlock()
		time.Sleep(wait)
	}
}
