package handlers

import (
	"context"
	"errors"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/events"
	"eventbase/domain/projection"

	"go.uber.org/zap"
)

// ReplayEventsHandler handles the ReplayEventsQuery
type ReplayEventsHandler struct {
	store  ports.StreamStore
	logger *zap.Logger
}

// NewReplayEventsHandler creates a new handler instance
func NewReplayEventsHandler(store ports.StreamStore, logger *zap.Logger) *ReplayEventsHandler {
	return &ReplayEventsHandler{
		store:  store,
		logger: logger,
	}
}

// Handle replays the entity's filtered stream into its derived state.
// An absent stream is a normal, zero-state answer here, never an error.
func (h *ReplayEventsHandler) Handle(ctx context.Context, query queries.ReplayEventsQuery) (*queries.ReplayResult, error) {
	records, err := h.store.FetchStream(ctx, query.EntityID)
	if errors.Is(err, ports.ErrStreamNotFound) {
		return &queries.ReplayResult{
			EntityID:     query.EntityID,
			CurrentState: nil,
			EventHistory: []events.Record{},
			TotalEvents:  0,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	filtered := filterRecords(records, query.FromDate, query.ToDate, query.EventTypes)
	state := projection.Replay(filtered, query.EntityID)

	h.logger.Debug("replayed events",
		zap.String("entityID", query.EntityID),
		zap.Int("total", len(records)),
		zap.Int("replayed", len(filtered)),
	)

	return &queries.ReplayResult{
		EntityID:     query.EntityID,
		CurrentState: state,
		EventHistory: filtered,
		TotalEvents:  len(filtered),
		LastEventAt:  lastEventAt(filtered),
	}, nil
}
