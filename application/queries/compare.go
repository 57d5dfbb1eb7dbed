package queries

import (
	"time"

	"eventbase/domain/events"
	"eventbase/domain/projection"
	apperrors "eventbase/pkg/errors"
)

// CompareStatesQuery diffs an entity's state between two points in time
type CompareStatesQuery struct {
	EntityID string
	FromDate time.Time
	ToDate   time.Time
}

// Validate validates the CompareStatesQuery
func (q CompareStatesQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	if q.FromDate.IsZero() || q.ToDate.IsZero() {
		return apperrors.NewValidationError("fromDate and toDate are required")
	}
	if !q.FromDate.Before(q.ToDate) {
		return apperrors.NewValidationError("fromDate must be before toDate")
	}
	return nil
}

// ComparePeriod is the compared time range
type ComparePeriod struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// StateComparison holds the two derived states and their field diff
type StateComparison struct {
	Before  projection.State        `json:"before"`
	After   projection.State        `json:"after"`
	Changes []projection.FieldChange `json:"changes"`
}

// PeriodEvent is one raw event that occurred inside the compared period
type PeriodEvent struct {
	Timestamp string         `json:"timestamp"`
	Action    string         `json:"action"`
	Details   events.Payload `json:"details"`
}

// CompareResult is the outcome of comparing two historical states
type CompareResult struct {
	EntityID        string          `json:"entityId"`
	Period          ComparePeriod   `json:"period"`
	StateComparison StateComparison `json:"stateComparison"`
	EventsInPeriod  []PeriodEvent   `json:"eventsInPeriod"`
}
