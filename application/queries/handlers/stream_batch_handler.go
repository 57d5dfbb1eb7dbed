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

// StreamBatchHandler handles the StreamBatchQuery
type StreamBatchHandler struct {
	store  ports.StreamStore
	logger *zap.Logger
}

// NewStreamBatchHandler creates a new handler instance
func NewStreamBatchHandler(store ports.StreamStore, logger *zap.Logger) *StreamBatchHandler {
	return &StreamBatchHandler{
		store:  store,
		logger: logger,
	}
}

// Handle returns one 1-indexed page of the entity's stream along with the
// state accumulated through the end of that page. An absent stream yields
// an empty page.
func (h *StreamBatchHandler) Handle(ctx context.Context, query queries.StreamBatchQuery) (*queries.StreamBatchResult, error) {
	records, err := h.store.FetchStream(ctx, query.EntityID)
	if errors.Is(err, ports.ErrStreamNotFound) {
		return &queries.StreamBatchResult{
			Batch:          []events.Record{},
			BatchNumber:    query.BatchNumber,
			TotalProcessed: 0,
			HasMore:        false,
			Metadata: queries.BatchMetadata{
				EntityID:  query.EntityID,
				BatchSize: query.BatchSize,
			},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	start := (query.BatchNumber - 1) * query.BatchSize
	end := start + query.BatchSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	return &queries.StreamBatchResult{
		Batch:          records[start:end],
		BatchNumber:    query.BatchNumber,
		TotalProcessed: end,
		HasMore:        end < len(records),
		Metadata: queries.BatchMetadata{
			EntityID:     query.EntityID,
			BatchSize:    query.BatchSize,
			CurrentState: projection.Replay(records[:end], query.EntityID),
		},
	}, nil
}
