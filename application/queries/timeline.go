package queries

import (
	apperrors "eventbase/pkg/errors"
)

// EventTimelineQuery renders an entity's history as human-readable entries
type EventTimelineQuery struct {
	EntityID string
}

// Validate validates the EventTimelineQuery
func (q EventTimelineQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	return nil
}

// TimelineEntry is one rendered event in the timeline
type TimelineEntry struct {
	EventName string   `json:"eventName"`
	Timestamp string   `json:"timestamp"`
	Changes   []string `json:"changes"`
}

// TimelineResult is the timeline of an entity's recorded history
type TimelineResult struct {
	Events       []TimelineEntry `json:"events"`
	TotalEvents  int             `json:"totalEvents"`
	FirstEventAt string          `json:"firstEventAt,omitempty"`
	LastEventAt  string          `json:"lastEventAt,omitempty"`
}
