package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eventbase/domain/events"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRecord(name events.EventName) events.Record {
	return events.NewRecord(name, events.Payload{"id": "u1"}, time.Now().UTC())
}

func TestDispatcher(t *testing.T) {
	t.Run("delivers to kind subscribers and catch-all", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())

		var mu sync.Mutex
		var got []string
		d.Subscribe(events.UserCreated, func(ctx context.Context, aggregateID string, record events.Record) error {
			mu.Lock()
			got = append(got, "kind:"+aggregateID)
			mu.Unlock()
			return nil
		})
		d.SubscribeAll(func(ctx context.Context, aggregateID string, record events.Record) error {
			mu.Lock()
			got = append(got, "all:"+record.Name.String())
			mu.Unlock()
			return nil
		})

		d.Dispatch("u1", testRecord(events.UserCreated))
		d.Dispatch("u1", testRecord(events.UserUpdated))
		d.Close()

		mu.Lock()
		defer mu.Unlock()
		require.ElementsMatch(t, []string{
			"kind:u1",
			"all:user-created-event",
			"all:user-updated-event",
		}, got)
	})

	t.Run("panicking subscriber does not starve the others", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())

		delivered := make(chan struct{}, 1)
		d.Subscribe(events.UserCreated, func(ctx context.Context, aggregateID string, record events.Record) error {
			panic("boom")
		})
		d.Subscribe(events.UserCreated, func(ctx context.Context, aggregateID string, record events.Record) error {
			delivered <- struct{}{}
			return nil
		})

		d.Dispatch("u1", testRecord(events.UserCreated))
		d.Close()

		select {
		case <-delivered:
		default:
			t.Fatal("second subscriber was not invoked")
		}
	})

	t.Run("failing subscriber does not stop delivery", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())

		count := 0
		var mu sync.Mutex
		d.Subscribe(events.UserCreated, func(ctx context.Context, aggregateID string, record events.Record) error {
			return errors.New("projection write failed")
		})
		d.Subscribe(events.UserCreated, func(ctx context.Context, aggregateID string, record events.Record) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})

		d.Dispatch("u1", testRecord(events.UserCreated))
		d.Close()

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, 1, count)
	})

	t.Run("re-entrant dispatch from a subscriber completes", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())

		followUp := make(chan struct{}, 1)
		d.Subscribe(events.UserCreated, func(ctx context.Context, aggregateID string, record events.Record) error {
			d.Dispatch("n1", testRecord(events.NotificationCreated))
			return nil
		})
		d.Subscribe(events.NotificationCreated, func(ctx context.Context, aggregateID string, record events.Record) error {
			followUp <- struct{}{}
			return nil
		})

		d.Dispatch("u1", testRecord(events.UserCreated))

		select {
		case <-followUp:
		case <-time.After(5 * time.Second):
			t.Fatal("follow-up record was never delivered")
		}
		d.Close()
	})

	t.Run("close drains queued envelopes", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())

		var mu sync.Mutex
		count := 0
		d.SubscribeAll(func(ctx context.Context, aggregateID string, record events.Record) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})

		const total = 100
		for i := 0; i < total; i++ {
			d.Dispatch("u1", testRecord(events.UserUpdated))
		}
		d.Close()

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, total, count)
	})

	t.Run("dispatch after close is dropped", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop())

		delivered := make(chan struct{}, 1)
		d.SubscribeAll(func(ctx context.Context, aggregateID string, record events.Record) error {
			delivered <- struct{}{}
			return nil
		})

		d.Close()
		d.Dispatch("u1", testRecord(events.UserCreated))

		select {
		case <-delivered:
			t.Fatal("record was delivered after close")
		case <-time.After(50 * time.Millisecond):
		}
	})
}
