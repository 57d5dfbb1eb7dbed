package handlers

import (
	"context"
	"errors"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/events"
	"eventbase/domain/projection"
	apperrors "eventbase/pkg/errors"

	"go.uber.org/zap"
)

// StateAtTimeHandler handles the StateAtTimeQuery
type StateAtTimeHandler struct {
	store  ports.StreamStore
	logger *zap.Logger
}

// NewStateAtTimeHandler creates a new handler instance
func NewStateAtTimeHandler(store ports.StreamStore, logger *zap.Logger) *StateAtTimeHandler {
	return &StateAtTimeHandler{
		store:  store,
		logger: logger,
	}
}

// Handle derives the entity's state as of the given instant. This is a
// targeted lookup for a presumed-existing entity, so an absent stream fails
// with NotFound. A stream whose events all occurred after the instant yields
// a zero-state result.
func (h *StateAtTimeHandler) Handle(ctx context.Context, query queries.StateAtTimeQuery) (*queries.ReplayResult, error) {
	records, err := h.store.FetchStream(ctx, query.EntityID)
	if errors.Is(err, ports.ErrStreamNotFound) {
		return nil, apperrors.NewNotFoundError("events for entity " + query.EntityID)
	}
	if err != nil {
		return nil, err
	}

	upToTime := filterRecords(records, nil, &query.Timestamp, nil)
	if len(upToTime) == 0 {
		return &queries.ReplayResult{
			EntityID:     query.EntityID,
			CurrentState: nil,
			EventHistory: []events.Record{},
			TotalEvents:  0,
		}, nil
	}

	return &queries.ReplayResult{
		EntityID:     query.EntityID,
		CurrentState: projection.Replay(upToTime, query.EntityID),
		EventHistory: upToTime,
		TotalEvents:  len(upToTime),
		LastEventAt:  lastEventAt(upToTime),
	}, nil
}
