package observer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vshulcz/elasticreport/pkg/observer"
)

type testEvent struct {
	ID string
}

func TestSubject_PublishNotifiesAllInOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(tag string) observer.Observer[testEvent] {
		return observer.ObserverFunc[testEvent](func(_ context.Context, evt testEvent) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, tag+":"+evt.ID)
			return nil
		})
	}

	subj := observer.NewSubject(record("a"), nil)
	subj.Attach(record("b"))
	require.Equal(t, 2, subj.Len())

	require.NoError(t, subj.Publish(context.Background(), testEvent{ID: "bulk"}))
	assert.Equal(t, []string{"a:bulk", "b:bulk"}, order)
}

func TestSubject_PublishJoinsErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	calls := 0
	fail := func(err error) observer.Observer[testEvent] {
		return observer.ObserverFunc[testEvent](func(context.Context, testEvent) error {
			calls++
			return err
		})
	}

	subj := observer.NewSubject(fail(errA), fail(nil), fail(errB))
	err := subj.Publish(context.Background(), testEvent{})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 3, calls)
}

func TestSubject_Nil(t *testing.T) {
	var subj *observer.Subject[testEvent]
	subj.Attach(observer.ObserverFunc[testEvent](nil))
	assert.NoError(t, subj.Publish(context.Background(), testEvent{}))
	assert.Zero(t, subj.Len())

	var fn observer.ObserverFunc[testEvent]
	assert.NoError(t, fn.Notify(context.Background(), testEvent{}))
}
