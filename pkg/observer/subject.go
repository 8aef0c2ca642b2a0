// Package observer provides a small typed fan-out for side-channel events.
package observer

import (
	"context"
	"errors"
	"sync"
)

// Observer receives published events of type T.
type Observer[T any] interface {
	Notify(context.Context, T) error
}

// ObserverFunc adapts a standalone function into an Observer.
//
//revive:disable-next-line:exported
type ObserverFunc[T any] func(context.Context, T) error

func (f ObserverFunc[T]) Notify(ctx context.Context, evt T) error {
	if f == nil {
		return nil
	}
	return f(ctx, evt)
}

// Publisher publishes events to downstream observers.
type Publisher[T any] interface {
	Publish(context.Context, T) error
}

// Subject delivers every event to all attached observers in attach order.
// A nil *Subject publishes nothing.
type Subject[T any] struct {
	observers []Observer[T]
	mu        sync.RWMutex
}

// NewSubject constructs a Subject; nil observers are skipped.
func NewSubject[T any](observers ...Observer[T]) *Subject[T] {
	s := &Subject[T]{}
	s.Attach(observers...)
	return s
}

// Publish notifies every observer even when some fail and returns their errors joined.
func (s *Subject[T]) Publish(ctx context.Context, evt T) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()

	var errs []error
	for _, obs := range observers {
		if err := obs.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Attach registers additional observers.
func (s *Subject[T]) Attach(observers ...Observer[T]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Observer[T], 0, len(s.observers)+len(observers))
	next = append(next, s.observers...)
	for _, o := range observers {
		if o != nil {
			next = append(next, o)
		}
	}
	s.observers = next
}

// Len reports how many observers are attached.
func (s *Subject[T]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}
