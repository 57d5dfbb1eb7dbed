package handlers

import (
	"context"
	"errors"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/projection"
	apperrors "eventbase/pkg/errors"

	"go.uber.org/zap"
)

// StateAfterEventsHandler handles the StateAfterEventsQuery
type StateAfterEventsHandler struct {
	store  ports.StreamStore
	logger *zap.Logger
}

// NewStateAfterEventsHandler creates a new handler instance
func NewStateAfterEventsHandler(store ports.StreamStore, logger *zap.Logger) *StateAfterEventsHandler {
	return &StateAfterEventsHandler{
		store:  store,
		logger: logger,
	}
}

// Handle derives the entity's state after its first N events in append
// order. Time plays no part here. An absent stream fails with NotFound.
func (h *StateAfterEventsHandler) Handle(ctx context.Context, query queries.StateAfterEventsQuery) (*queries.ReplayResult, error) {
	records, err := h.store.FetchStream(ctx, query.EntityID)
	if errors.Is(err, ports.ErrStreamNotFound) {
		return nil, apperrors.NewNotFoundError("events for entity " + query.EntityID)
	}
	if err != nil {
		return nil, err
	}

	count := query.EventCount
	if count > len(records) {
		count = len(records)
	}
	prefix := records[:count]

	return &queries.ReplayResult{
		EntityID:     query.EntityID,
		CurrentState: projection.Replay(prefix, query.EntityID),
		EventHistory: prefix,
		TotalEvents:  len(prefix),
		LastEventAt:  lastEventAt(prefix),
	}, nil
}
