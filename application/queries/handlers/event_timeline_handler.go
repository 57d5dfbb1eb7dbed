package handlers

import (
	"context"
	"errors"
	"time"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/events"

	"go.uber.org/zap"
)

// EventTimelineHandler handles the EventTimelineQuery
type EventTimelineHandler struct {
	store  ports.StreamStore
	logger *zap.Logger
}

// NewEventTimelineHandler creates a new handler instance
func NewEventTimelineHandler(store ports.StreamStore, logger *zap.Logger) *EventTimelineHandler {
	return &EventTimelineHandler{
		store:  store,
		logger: logger,
	}
}

// Handle renders the entity's full history as human-readable entries.
// An absent stream yields an empty timeline.
func (h *EventTimelineHandler) Handle(ctx context.Context, query queries.EventTimelineQuery) (*queries.TimelineResult, error) {
	records, err := h.store.FetchStream(ctx, query.EntityID)
	if errors.Is(err, ports.ErrStreamNotFound) {
		return &queries.TimelineResult{
			Events:      []queries.TimelineEntry{},
			TotalEvents: 0,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]queries.TimelineEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, queries.TimelineEntry{
			EventName: record.Name.String(),
			Timestamp: record.CreatedAt.Format(time.RFC3339Nano),
			Changes:   events.DescribeChanges(record.Name, record.Payload),
		})
	}

	return &queries.TimelineResult{
		Events:       entries,
		TotalEvents:  len(records),
		FirstEventAt: firstEventAt(records),
		LastEventAt:  lastEventAt(records),
	}, nil
}
