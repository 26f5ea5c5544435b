// Package timer drives a callback at a fixed frame rate.
package timer

import (
	"context"
	"time"
)

// Period returns the tick duration for the given frame rate.
func Period(rate float64) time.Duration {
	if rate <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / rate)
}

// Pace calls tick on every period of the given frame rate until ctx is done
// or tick returns an error. A tick that overruns delays the next one rather
// than queueing a burst of catch-up ticks.
func Pace(ctx context.Context, rate float64, tick func(now time.Time) error) error {
	period := Period(rate)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}

			if err := tick(now); err != nil {
				return err
			}

			// Re-synchronize the ticker when the callback ran long.
			if time.Since(now) > period {
				ticker.Reset(period)
			}
		}
	}
}
