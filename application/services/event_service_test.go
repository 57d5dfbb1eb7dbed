package services

import (
	"context"
	"testing"
	"time"

	"eventbase/application/ports"
	"eventbase/domain/events"
	"eventbase/infrastructure/persistence/memory"
	apperrors "eventbase/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type spyDispatcher struct {
	dispatched []events.Record
}

func (d *spyDispatcher) Subscribe(name events.EventName, subscriber ports.Subscriber) {}

func (d *spyDispatcher) SubscribeAll(subscriber ports.Subscriber) {}

func (d *spyDispatcher) Dispatch(aggregateID string, record events.Record) {
	d.dispatched = append(d.dispatched, record)
}

func TestEventService(t *testing.T) {
	t.Run("append persists then dispatches", func(t *testing.T) {
		store := memory.NewStreamStore()
		dispatcher := &spyDispatcher{}
		service := NewEventService(store, dispatcher, zap.NewNop())

		record, err := service.Append(context.Background(), "u1", events.UserCreated,
			events.Payload{"name": "Ada"})
		require.NoError(t, err)
		require.Equal(t, events.UserCreated, record.Name)
		require.WithinDuration(t, time.Now(), record.CreatedAt, time.Minute)

		persisted, err := store.FetchStream(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, persisted, 1)

		require.Len(t, dispatcher.dispatched, 1)
		require.Equal(t, events.UserCreated, dispatcher.dispatched[0].Name)
	})

	t.Run("empty aggregate id never reaches the store", func(t *testing.T) {
		dispatcher := &spyDispatcher{}
		service := NewEventService(memory.NewStreamStore(), dispatcher, zap.NewNop())

		_, err := service.Append(context.Background(), "", events.UserCreated, events.Payload{})
		require.True(t, apperrors.IsValidation(err))
		require.Empty(t, dispatcher.dispatched)
	})
}
