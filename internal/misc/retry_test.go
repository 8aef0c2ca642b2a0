package misc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	errRetriable = errors.New("retriable")
	errPermanent = errors.New("permanent")
)

func isRetriable(err error) bool {
	return errors.Is(err, errRetriable)
}

func sequence(steps ...error) (func() error, *int) {
	attempt := 0
	return func() error {
		idx := min(attempt, len(steps)-1)
		attempt++
		return steps[idx]
	}, &attempt
}

func TestRetryPolicy_Do(t *testing.T) {
	short := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	cases := []struct {
		name         string
		wantErr      error
		steps        []error
		delays       []time.Duration
		wantAttempts int
	}{
		{"first_try", nil, []error{nil}, short, 1},
		{"recovers", nil, []error{errRetriable, errRetriable, nil}, short, 3},
		{"permanent_stops", errPermanent, []error{errPermanent, nil}, short, 1},
		{"exhausted", errRetriable, []error{errRetriable}, short, 4},
		{"no_delays", errRetriable, []error{errRetriable}, nil, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, attempts := sequence(tc.steps...)
			err := RetryPolicy{Delays: tc.delays, Retryable: isRetriable}.Do(context.Background(), op)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantAttempts, *attempts)
		})
	}
}

func TestRetryPolicy_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	op, attempts := sequence(errRetriable)
	err := RetryPolicy{Delays: []time.Duration{time.Second}, Retryable: isRetriable}.Do(ctx, op)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, *attempts)
}
