// Package semaphore provides the binary FIFO semaphore that serialises
// requests to the shared geocoder. A geocoder response carries no request id,
// so response N must be fully handled before request N+1 is sent.
package semaphore

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Semaphore is a binary semaphore with a FIFO waiter queue. Release hands
// ownership straight to the oldest waiter; the lock stays held.
type Semaphore struct {
	mu sync.Mutex
	w  *semaphore.Weighted
}

// New returns a semaphore that starts locked. The owner of the external
// resource releases it once the resource is ready.
func New() *Semaphore {
	w := semaphore.NewWeighted(1)
	w.TryAcquire(1)
	return &Semaphore{w: w}
}

// Acquire locks the semaphore, waiting in FIFO order behind earlier callers.
// It returns ctx.Err() if ctx is done before the lock is obtained.
func (s *Semaphore) Acquire(ctx context.Context) error {
	return s.w.Acquire(ctx, 1)
}

// TryAcquire locks the semaphore only if it is free and nobody is waiting.
func (s *Semaphore) TryAcquire() bool {
	return s.w.TryAcquire(1)
}

// Release wakes the oldest waiter, or marks the semaphore free if nobody is
// waiting. Releasing a free semaphore is a no-op.
func (s *Semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// take the slot if it is free so the release below never goes negative
	s.w.TryAcquire(1)
	s.w.Release(1)
}
