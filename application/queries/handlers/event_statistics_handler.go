package handlers

import (
	"context"
	"errors"

	"eventbase/application/ports"
	"eventbase/application/queries"

	"go.uber.org/zap"
)

// EventStatisticsHandler handles the EventStatisticsQuery
type EventStatisticsHandler struct {
	store  ports.StreamStore
	logger *zap.Logger
}

// NewEventStatisticsHandler creates a new handler instance
func NewEventStatisticsHandler(store ports.StreamStore, logger *zap.Logger) *EventStatisticsHandler {
	return &EventStatisticsHandler{
		store:  store,
		logger: logger,
	}
}

// Handle summarizes the entity's history: per-kind counts and the mean
// interval between consecutive events. An absent stream yields zeroed
// statistics.
func (h *EventStatisticsHandler) Handle(ctx context.Context, query queries.EventStatisticsQuery) (*queries.StatisticsResult, error) {
	records, err := h.store.FetchStream(ctx, query.EntityID)
	if errors.Is(err, ports.ErrStreamNotFound) {
		return &queries.StatisticsResult{
			TotalEvents:  0,
			EventsByType: map[string]int{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	byType := make(map[string]int, len(records))
	for _, record := range records {
		byType[record.Name.String()]++
	}

	result := &queries.StatisticsResult{
		TotalEvents:  len(records),
		EventsByType: byType,
		FirstEventAt: firstEventAt(records),
		LastEventAt:  lastEventAt(records),
	}

	if len(records) > 1 {
		first := records[0].CreatedAt
		last := records[len(records)-1].CreatedAt
		average := float64(last.Sub(first).Milliseconds()) / float64(len(records)-1)
		result.AverageTimeBetweenEvents = &average
	}

	return result, nil
}
