package queries

import (
	"eventbase/domain/events"
	"eventbase/domain/projection"
	apperrors "eventbase/pkg/errors"
)

// maxBatchSize caps a single page of stream consumption
const maxBatchSize = 1000

// DefaultBatchSize is used when the caller does not specify a page size
const DefaultBatchSize = 50

// StreamBatchQuery pages through an entity's stream in fixed-size,
// 1-indexed batches.
type StreamBatchQuery struct {
	EntityID    string
	BatchNumber int
	BatchSize   int
}

// Validate validates the StreamBatchQuery
func (q StreamBatchQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	if q.BatchNumber < 1 {
		return apperrors.NewValidationError("batch number must be at least 1")
	}
	if q.BatchSize < 1 {
		return apperrors.NewValidationError("batch size must be at least 1")
	}
	if q.BatchSize > maxBatchSize {
		return apperrors.NewValidationError("batch size must be at most 1000")
	}
	return nil
}

// BatchMetadata describes the page and the state accumulated through it
type BatchMetadata struct {
	EntityID     string           `json:"entityId"`
	BatchSize    int              `json:"batchSize"`
	CurrentState projection.State `json:"currentState,omitempty"`
}

// StreamBatchResult is one page of an entity's stream. TotalProcessed is the
// number of events consumed through the end of this batch; CurrentState in
// the metadata is the projection over that prefix.
type StreamBatchResult struct {
	Batch          []events.Record `json:"batch"`
	BatchNumber    int             `json:"batchNumber"`
	TotalProcessed int             `json:"totalProcessed"`
	HasMore        bool            `json:"hasMore"`
	Metadata       BatchMetadata   `json:"metadata"`
}
