package advisor

// load_limiter.go caps how many loads read their source at once.
//
// Reads happen outside the service lock, so without a cap a burst of HTTP
// load requests could each open a file or a database cursor in parallel.
// When every slot is taken, a new load waits up to maxWait before failing
// with ErrTooManyLoads. WaitForDrain blocks until in-flight loads finish and
// is used during graceful shutdown.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyLoads is returned when every load slot stays busy for the whole
// wait period. Clients should retry after a short delay.
var ErrTooManyLoads = errors.New("too many concurrent loads, please try again later")

// DefaultMaxConcurrentLoads is the default limit for parallel loads.
const DefaultMaxConcurrentLoads = 2

// DefaultLoadWait is how long a load waits for a slot before giving up.
const DefaultLoadWait = 10 * time.Second

// LoadLimiter bounds concurrent source reads with a weighted semaphore.
type LoadLimiter struct {
	sem     *semaphore.Weighted
	max     int64
	maxWait time.Duration
	active  atomic.Int64
}

// NewLoadLimiter allows at most maxConcurrent simultaneous loads.
func NewLoadLimiter(maxConcurrent int, maxWait time.Duration) *LoadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentLoads
	}
	if maxWait <= 0 {
		maxWait = DefaultLoadWait
	}
	return &LoadLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the limiter's wait period.
// The caller must call Release once the load finishes.
func (l *LoadLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyLoads
	}
	l.active.Add(1)
	return nil
}

// Release frees a slot taken by Acquire.
func (l *LoadLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active returns the number of loads currently reading.
func (l *LoadLimiter) Active() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *LoadLimiter) MaxConcurrent() int {
	return int(l.max)
}

// WaitForDrain blocks until no load holds a slot or ctx is done.
func (l *LoadLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.max); err != nil {
		return err
	}
	l.sem.Release(l.max)
	return nil
}
