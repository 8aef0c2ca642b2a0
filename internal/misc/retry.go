package misc

import (
	"context"
	"time"
)

// RetryPolicy decides how often and how long to wait between attempts.
type RetryPolicy struct {
	Retryable func(error) bool
	Delays    []time.Duration
}

// DefaultBackoff waits 1s, 3s and 5s between attempts.
var DefaultBackoff = []time.Duration{
	1 * time.Second,
	3 * time.Second,
	5 * time.Second,
}

// Do runs op until it succeeds, the error is not retryable, delays run out or ctx ends.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= len(p.Delays) || p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		t := time.NewTimer(p.Delays[attempt])
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
