package handlers

import (
	"context"
	"time"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/projection"

	"go.uber.org/zap"
)

// CompareStatesHandler handles the CompareStatesQuery
type CompareStatesHandler struct {
	store  ports.StreamStore
	atTime *StateAtTimeHandler
	logger *zap.Logger
}

// NewCompareStatesHandler creates a new handler instance
func NewCompareStatesHandler(store ports.StreamStore, logger *zap.Logger) *CompareStatesHandler {
	return &CompareStatesHandler{
		store:  store,
		atTime: NewStateAtTimeHandler(store, logger),
		logger: logger,
	}
}

// Handle derives the entity's state at both ends of the period, diffs the
// two field by field, and returns the raw events that occurred inside the
// period. Inherits StateAtTime's NotFound behavior for an absent stream.
func (h *CompareStatesHandler) Handle(ctx context.Context, query queries.CompareStatesQuery) (*queries.CompareResult, error) {
	before, err := h.atTime.Handle(ctx, queries.StateAtTimeQuery{
		EntityID:  query.EntityID,
		Timestamp: query.FromDate,
	})
	if err != nil {
		return nil, err
	}

	after, err := h.atTime.Handle(ctx, queries.StateAtTimeQuery{
		EntityID:  query.EntityID,
		Timestamp: query.ToDate,
	})
	if err != nil {
		return nil, err
	}

	records, err := h.store.FetchStream(ctx, query.EntityID)
	if err != nil {
		return nil, err
	}

	inPeriod := filterRecords(records, &query.FromDate, &query.ToDate, nil)
	periodEvents := make([]queries.PeriodEvent, 0, len(inPeriod))
	for _, record := range inPeriod {
		periodEvents = append(periodEvents, queries.PeriodEvent{
			Timestamp: record.CreatedAt.Format(time.RFC3339Nano),
			Action:    record.Name.String(),
			Details:   record.Payload,
		})
	}

	return &queries.CompareResult{
		EntityID: query.EntityID,
		Period: queries.ComparePeriod{
			From: query.FromDate.Format(time.RFC3339Nano),
			To:   query.ToDate.Format(time.RFC3339Nano),
		},
		StateComparison: queries.StateComparison{
			Before:  before.CurrentState,
			After:   after.CurrentState,
			Changes: projection.Diff(before.CurrentState, after.CurrentState),
		},
		EventsInPeriod: periodEvents,
	}, nil
}
