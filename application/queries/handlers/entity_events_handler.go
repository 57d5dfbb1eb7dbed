package handlers

import (
	"context"
	"errors"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/events"

	"go.uber.org/zap"
)

// EntityEventsHandler handles the EntityEventsQuery
type EntityEventsHandler struct {
	store  ports.StreamStore
	logger *zap.Logger
}

// NewEntityEventsHandler creates a new handler instance
func NewEntityEventsHandler(store ports.StreamStore, logger *zap.Logger) *EntityEventsHandler {
	return &EntityEventsHandler{
		store:  store,
		logger: logger,
	}
}

// Handle returns the entity's raw records in append order, optionally
// narrowed by an event-kind allow-list. An absent stream yields an empty
// slice.
func (h *EntityEventsHandler) Handle(ctx context.Context, query queries.EntityEventsQuery) ([]events.Record, error) {
	records, err := h.store.FetchStream(ctx, query.EntityID)
	if errors.Is(err, ports.ErrStreamNotFound) {
		return []events.Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	return filterRecords(records, nil, nil, query.EventTypes), nil
}
