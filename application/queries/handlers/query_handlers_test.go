package handlers

import (
	"context"
	"testing"
	"time"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/events"
	apperrors "eventbase/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubStore is a fixed-content ports.StreamStore so tests control record
// timestamps exactly.
type stubStore struct {
	streams map[string][]events.Record
}

func (s *stubStore) Append(ctx context.Context, aggregateID string, name events.EventName, payload events.Payload) (events.Record, error) {
	record := events.NewRecord(name, payload, time.Now().UTC())
	s.streams[aggregateID] = append(s.streams[aggregateID], record)
	return record, nil
}

func (s *stubStore) FetchStream(ctx context.Context, aggregateID string) ([]events.Record, error) {
	stream, ok := s.streams[aggregateID]
	if !ok || len(stream) == 0 {
		return nil, ports.ErrStreamNotFound
	}
	return stream, nil
}

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// seededStore returns a store holding one user stream with three events at
// t0, t0+10ms and t0+30ms.
func seededStore() *stubStore {
	return &stubStore{streams: map[string][]events.Record{
		"user-1": {
			events.NewRecord(events.UserCreated, events.Payload{
				"id": "user-1", "name": "Ada", "email": "ada@example.com", "role": "client",
			}, baseTime),
			events.NewRecord(events.UserUpdated, events.Payload{
				"id": "user-1", "name": "Ada Lovelace", "dob": nil,
			}, baseTime.Add(10*time.Millisecond)),
			events.NewRecord(events.UserUpdated, events.Payload{
				"id": "user-1", "role": "admin",
			}, baseTime.Add(30*time.Millisecond)),
		},
	}}
}

func TestReplayEventsHandler(t *testing.T) {
	handler := NewReplayEventsHandler(seededStore(), zap.NewNop())

	t.Run("replays full stream into current state", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.ReplayEventsQuery{EntityID: "user-1"})
		require.NoError(t, err)
		require.Equal(t, "user-1", result.EntityID)
		require.Equal(t, 3, result.TotalEvents)
		require.Equal(t, "Ada Lovelace", result.CurrentState["name"])
		require.Equal(t, "admin", result.CurrentState["role"])
		require.Equal(t, baseTime.Add(30*time.Millisecond).Format(time.RFC3339Nano), result.LastEventAt)
	})

	t.Run("time range filters inclusively", func(t *testing.T) {
		from := baseTime.Add(10 * time.Millisecond)
		to := baseTime.Add(10 * time.Millisecond)
		result, err := handler.Handle(context.Background(), queries.ReplayEventsQuery{
			EntityID: "user-1",
			FromDate: &from,
			ToDate:   &to,
		})
		require.NoError(t, err)
		require.Equal(t, 1, result.TotalEvents)
		require.Equal(t, events.UserUpdated, result.EventHistory[0].Name)
	})

	t.Run("event type filter preserves append order", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.ReplayEventsQuery{
			EntityID:   "user-1",
			EventTypes: []events.EventName{events.UserUpdated},
		})
		require.NoError(t, err)
		require.Len(t, result.EventHistory, 2)
		require.True(t, result.EventHistory[0].CreatedAt.Before(result.EventHistory[1].CreatedAt))
	})

	t.Run("absent stream yields empty result not error", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.ReplayEventsQuery{EntityID: "ghost"})
		require.NoError(t, err)
		require.Nil(t, result.CurrentState)
		require.Empty(t, result.EventHistory)
		require.Zero(t, result.TotalEvents)
	})
}

func TestStateAtTimeHandler(t *testing.T) {
	handler := NewStateAtTimeHandler(seededStore(), zap.NewNop())

	t.Run("ignores events after the instant", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.StateAtTimeQuery{
			EntityID:  "user-1",
			Timestamp: baseTime.Add(15 * time.Millisecond),
		})
		require.NoError(t, err)
		require.Equal(t, 2, result.TotalEvents)
		require.Equal(t, "Ada Lovelace", result.CurrentState["name"])
		require.Equal(t, "client", result.CurrentState["role"])
	})

	t.Run("instant before all events yields zero state", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.StateAtTimeQuery{
			EntityID:  "user-1",
			Timestamp: baseTime.Add(-time.Second),
		})
		require.NoError(t, err)
		require.Nil(t, result.CurrentState)
		require.Zero(t, result.TotalEvents)
	})

	t.Run("absent stream is NotFound", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), queries.StateAtTimeQuery{
			EntityID:  "ghost",
			Timestamp: baseTime,
		})
		require.Error(t, err)
		require.True(t, apperrors.IsNotFound(err))
	})
}

func TestStateAfterEventsHandler(t *testing.T) {
	handler := NewStateAfterEventsHandler(seededStore(), zap.NewNop())

	t.Run("replays the first N events in append order", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.StateAfterEventsQuery{
			EntityID:   "user-1",
			EventCount: 2,
		})
		require.NoError(t, err)
		require.Equal(t, 2, result.TotalEvents)
		require.Equal(t, "Ada Lovelace", result.CurrentState["name"])
		require.Equal(t, "client", result.CurrentState["role"])
	})

	t.Run("count beyond stream length clamps to full stream", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.StateAfterEventsQuery{
			EntityID:   "user-1",
			EventCount: 99,
		})
		require.NoError(t, err)
		require.Equal(t, 3, result.TotalEvents)
	})

	t.Run("absent stream is NotFound", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), queries.StateAfterEventsQuery{
			EntityID:   "ghost",
			EventCount: 1,
		})
		require.True(t, apperrors.IsNotFound(err))
	})
}

func TestEventTimelineHandler(t *testing.T) {
	handler := NewEventTimelineHandler(seededStore(), zap.NewNop())

	t.Run("renders one entry per event with change text", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.EventTimelineQuery{EntityID: "user-1"})
		require.NoError(t, err)
		require.Equal(t, 3, result.TotalEvents)
		require.Len(t, result.Events, 3)
		require.Equal(t, "user-created-event", result.Events[0].EventName)
		require.Contains(t, result.Events[0].Changes, "User created with email: ada@example.com")
		// null dob in the second event is not rendered as a change
		require.Equal(t, []string{"name updated to: Ada Lovelace"}, result.Events[1].Changes)
		require.Equal(t, baseTime.Format(time.RFC3339Nano), result.FirstEventAt)
	})

	t.Run("absent stream yields an empty timeline", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.EventTimelineQuery{EntityID: "ghost"})
		require.NoError(t, err)
		require.Empty(t, result.Events)
		require.Zero(t, result.TotalEvents)
		require.Empty(t, result.FirstEventAt)
	})
}

func TestEventStatisticsHandler(t *testing.T) {
	handler := NewEventStatisticsHandler(seededStore(), zap.NewNop())

	t.Run("counts by kind and computes the mean interval", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.EventStatisticsQuery{EntityID: "user-1"})
		require.NoError(t, err)
		require.Equal(t, 3, result.TotalEvents)
		require.Equal(t, map[string]int{
			"user-created-event": 1,
			"user-updated-event": 2,
		}, result.EventsByType)
		// 30ms span over 2 intervals
		require.NotNil(t, result.AverageTimeBetweenEvents)
		require.InDelta(t, 15.0, *result.AverageTimeBetweenEvents, 0.001)
	})

	t.Run("single event omits the average", func(t *testing.T) {
		store := &stubStore{streams: map[string][]events.Record{
			"user-2": {events.NewRecord(events.UserCreated, events.Payload{"id": "user-2"}, baseTime)},
		}}
		result, err := NewEventStatisticsHandler(store, zap.NewNop()).Handle(
			context.Background(), queries.EventStatisticsQuery{EntityID: "user-2"})
		require.NoError(t, err)
		require.Equal(t, 1, result.TotalEvents)
		require.Nil(t, result.AverageTimeBetweenEvents)
	})

	t.Run("absent stream yields zeroed statistics", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.EventStatisticsQuery{EntityID: "ghost"})
		require.NoError(t, err)
		require.Zero(t, result.TotalEvents)
		require.Empty(t, result.EventsByType)
		require.Nil(t, result.AverageTimeBetweenEvents)
	})
}

func TestEntityEventsHandler(t *testing.T) {
	handler := NewEntityEventsHandler(seededStore(), zap.NewNop())

	t.Run("returns raw records in append order", func(t *testing.T) {
		records, err := handler.Handle(context.Background(), queries.EntityEventsQuery{EntityID: "user-1"})
		require.NoError(t, err)
		require.Len(t, records, 3)
		require.Equal(t, events.UserCreated, records[0].Name)
	})

	t.Run("allow-list narrows by kind", func(t *testing.T) {
		records, err := handler.Handle(context.Background(), queries.EntityEventsQuery{
			EntityID:   "user-1",
			EventTypes: []events.EventName{events.UserCreated},
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
	})

	t.Run("absent stream yields an empty slice", func(t *testing.T) {
		records, err := handler.Handle(context.Background(), queries.EntityEventsQuery{EntityID: "ghost"})
		require.NoError(t, err)
		require.Empty(t, records)
	})
}

func TestCompareStatesHandler(t *testing.T) {
	handler := NewCompareStatesHandler(seededStore(), zap.NewNop())

	t.Run("diffs the two endpoint states and lists period events", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.CompareStatesQuery{
			EntityID: "user-1",
			FromDate: baseTime.Add(5 * time.Millisecond),
			ToDate:   baseTime.Add(time.Minute),
		})
		require.NoError(t, err)

		require.Equal(t, "Ada", result.StateComparison.Before["name"])
		require.Equal(t, "Ada Lovelace", result.StateComparison.After["name"])
		require.Equal(t, "admin", result.StateComparison.After["role"])

		fields := make([]string, 0, len(result.StateComparison.Changes))
		for _, change := range result.StateComparison.Changes {
			fields = append(fields, change.Field)
		}
		require.Equal(t, []string{"name", "role"}, fields)

		// only the second and third events fall inside the period
		require.Len(t, result.EventsInPeriod, 2)
		require.Equal(t, "user-updated-event", result.EventsInPeriod[0].Action)
	})

	t.Run("absent stream is NotFound", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), queries.CompareStatesQuery{
			EntityID: "ghost",
			FromDate: baseTime,
			ToDate:   baseTime.Add(time.Minute),
		})
		require.True(t, apperrors.IsNotFound(err))
	})
}

func TestStreamBatchHandler(t *testing.T) {
	handler := NewStreamBatchHandler(seededStore(), zap.NewNop())

	t.Run("pages are 1-indexed and carry accumulated state", func(t *testing.T) {
		first, err := handler.Handle(context.Background(), queries.StreamBatchQuery{
			EntityID:    "user-1",
			BatchNumber: 1,
			BatchSize:   2,
		})
		require.NoError(t, err)
		require.Len(t, first.Batch, 2)
		require.Equal(t, 2, first.TotalProcessed)
		require.True(t, first.HasMore)
		require.Equal(t, "Ada Lovelace", first.Metadata.CurrentState["name"])
		require.Equal(t, "client", first.Metadata.CurrentState["role"])

		second, err := handler.Handle(context.Background(), queries.StreamBatchQuery{
			EntityID:    "user-1",
			BatchNumber: 2,
			BatchSize:   2,
		})
		require.NoError(t, err)
		require.Len(t, second.Batch, 1)
		require.Equal(t, 3, second.TotalProcessed)
		require.False(t, second.HasMore)
		require.Equal(t, "admin", second.Metadata.CurrentState["role"])
	})

	t.Run("page past the end is empty with no more", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.StreamBatchQuery{
			EntityID:    "user-1",
			BatchNumber: 5,
			BatchSize:   2,
		})
		require.NoError(t, err)
		require.Empty(t, result.Batch)
		require.False(t, result.HasMore)
	})

	t.Run("absent stream yields an empty page", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), queries.StreamBatchQuery{
			EntityID:    "ghost",
			BatchNumber: 1,
			BatchSize:   50,
		})
		require.NoError(t, err)
		require.Empty(t, result.Batch)
		require.Zero(t, result.TotalProcessed)
		require.False(t, result.HasMore)
	})
}
