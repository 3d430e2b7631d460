package fetch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLimiterSpacing(t *testing.T) {
	interval := 10 * time.Millisecond
	limiter := NewLimiter(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, PriorityNormal); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	// First admission is free; the remaining four each cost one interval.
	if elapsed < 4*interval {
		t.Fatalf("5 admissions took %v, want at least %v", elapsed, 4*interval)
	}
}

func TestLimiterFirstAdmissionImmediate(t *testing.T) {
	limiter := NewLimiter(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := limiter.Wait(ctx, PriorityNormal); err != nil {
		t.Fatalf("first Wait should not block on the interval: %v", err)
	}
}

func TestLimiterPriorityOrdering(t *testing.T) {
	interval := 40 * time.Millisecond
	limiter := NewLimiter(interval)
	ctx := context.Background()

	// Spend the free slot so every queued waiter must wait a full interval.
	if err := limiter.Wait(ctx, PriorityNormal); err != nil {
		t.Fatalf("priming Wait failed: %v", err)
	}

	var (
		mu    sync.Mutex
		order []Priority
		wg    sync.WaitGroup
	)
	admit := func(p Priority) {
		defer wg.Done()
		if err := limiter.Wait(ctx, p); err != nil {
			t.Errorf("Wait(%v) failed: %v", p, err)
			return
		}
		mu.Lock()
		order = append(order, p)
		mu.Unlock()
	}

	// Enqueue low first, then high; high must still be admitted first.
	wg.Add(2)
	go admit(PriorityLow)
	time.Sleep(5 * time.Millisecond)
	go admit(PriorityHigh)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != PriorityHigh || order[1] != PriorityLow {
		t.Fatalf("admission order %v, want [high low]", order)
	}
}

func TestLimiterFIFOWithinPriority(t *testing.T) {
	interval := 30 * time.Millisecond
	limiter := NewLimiter(interval)
	ctx := context.Background()

	if err := limiter.Wait(ctx, PriorityNormal); err != nil {
		t.Fatalf("priming Wait failed: %v", err)
	}

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := limiter.Wait(ctx, PriorityNormal); err != nil {
				t.Errorf("Wait %d failed: %v", id, err)
				return
			}
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		}(i)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i, id := range order {
		if id != i {
			t.Fatalf("admission order %v, want [0 1 2]", order)
		}
	}
}

func TestLimiterCancelBeforeAdmission(t *testing.T) {
	limiter := NewLimiter(time.Hour)
	ctx := context.Background()

	// Consume the free slot; the next waiter faces the full interval.
	if err := limiter.Wait(ctx, PriorityNormal); err != nil {
		t.Fatalf("priming Wait failed: %v", err)
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- limiter.Wait(cancelCtx, PriorityNormal)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	limiter.mu.Lock()
	queued := len(limiter.waiters)
	limiter.mu.Unlock()
	if queued != 0 {
		t.Fatalf("cancelled waiter still queued (%d waiters)", queued)
	}
}

func TestLimiterAlreadyCancelled(t *testing.T) {
	limiter := NewLimiter(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, PriorityNormal); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
