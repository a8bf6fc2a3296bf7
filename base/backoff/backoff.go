// Package backoff implements retry pacing for failure-recovery paths.
package backoff

import (
	"context"
	"math"
	"time"
)

// Backoff tracks the wait schedule across retries. Not safe for
// concurrent use; create one per retry loop.
type Backoff struct {
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	count        int
}

// NewExponential doubles the wait on each retry, starting at start and
// capped at limit.
func NewExponential(start, limit time.Duration) *Backoff {
	b := &Backoff{start: start, limit: limit}
	b.Reset()
	return b
}

func (b *Backoff) Reset() {
	b.count = 0
	b.NextDuration = b.next()
}

// Backoff sleeps for the current duration and advances the schedule.
// Returns early with ctx.Err() when the context is canceled.
func (b *Backoff) Backoff(ctx context.Context) error {
	sleepCtx, cancel := context.WithTimeout(ctx, b.NextDuration)
	<-sleepCtx.Done()
	cancel()
	if sleepCtx.Err() == context.DeadlineExceeded {
		b.count++
		b.NextDuration = b.next()
		return nil
	}
	return sleepCtx.Err()
}

func (b *Backoff) next() time.Duration {
	d := time.Duration(int64(math.Pow(2, float64(b.count)))) * b.start
	if b.limit > 0 && d > b.limit {
		d = b.limit
	}
	return d
}
