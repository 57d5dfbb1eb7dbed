package queries

import (
	"time"

	"eventbase/domain/events"
	"eventbase/domain/projection"
	apperrors "eventbase/pkg/errors"
)

// ReplayResult is the shared result shape of the state-deriving queries
type ReplayResult struct {
	EntityID     string           `json:"entityId"`
	CurrentState projection.State `json:"currentState"`
	EventHistory []events.Record  `json:"eventHistory"`
	TotalEvents  int              `json:"totalEvents"`
	LastEventAt  string           `json:"lastEventAt,omitempty"`
}

// ReplayEventsQuery replays an entity's events into its current state,
// optionally restricted by time range and event kinds. "No history" is a
// normal answer for this query, not an error.
type ReplayEventsQuery struct {
	EntityID   string
	FromDate   *time.Time
	ToDate     *time.Time
	EventTypes []events.EventName
	// BatchSize is accepted for forward compatibility with chunked replay;
	// it does not affect filtering.
	BatchSize int
}

// Validate validates the ReplayEventsQuery
func (q ReplayEventsQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	if q.FromDate != nil && q.ToDate != nil && q.FromDate.After(*q.ToDate) {
		return apperrors.NewValidationError("fromDate must not be after toDate")
	}
	if q.BatchSize < 0 {
		return apperrors.NewValidationError("batch size must be positive")
	}
	return nil
}

// StateAtTimeQuery derives the state of a presumed-existing entity as of a
// point in time. An absent stream is a NotFound failure.
type StateAtTimeQuery struct {
	EntityID  string
	Timestamp time.Time
}

// Validate validates the StateAtTimeQuery
func (q StateAtTimeQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	if q.Timestamp.IsZero() {
		return apperrors.NewValidationError("timestamp is required")
	}
	return nil
}

// StateAfterEventsQuery derives the state of a presumed-existing entity
// after its first N events in append order.
type StateAfterEventsQuery struct {
	EntityID   string
	EventCount int
}

// Validate validates the StateAfterEventsQuery
func (q StateAfterEventsQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	if q.EventCount < 0 {
		return apperrors.NewValidationError("event count must be non-negative")
	}
	return nil
}
