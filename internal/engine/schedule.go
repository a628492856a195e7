package engine

import (
	"context"
	"time"
)

// NextBoundary returns the first multiple of period strictly after now.
// With a one minute period that is the start of the next minute.
func NextBoundary(now time.Time, period time.Duration) time.Time {
	if period <= 0 {
		period = time.Minute
	}
	return now.Truncate(period).Add(period)
}

// sleepUntil blocks until t or until ctx is done
func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
