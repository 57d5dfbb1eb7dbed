package queries

import (
	apperrors "eventbase/pkg/errors"
)

// EventStatisticsQuery summarizes an entity's recorded history
type EventStatisticsQuery struct {
	EntityID string
}

// Validate validates the EventStatisticsQuery
func (q EventStatisticsQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	return nil
}

// StatisticsResult summarizes event counts and cadence for one entity.
// AverageTimeBetweenEvents is the mean inter-event interval in milliseconds,
// (last - first) / (count - 1); it is omitted when fewer than two events
// exist.
type StatisticsResult struct {
	TotalEvents              int            `json:"totalEvents"`
	EventsByType             map[string]int `json:"eventsByType"`
	FirstEventAt             string         `json:"firstEventAt,omitempty"`
	LastEventAt              string         `json:"lastEventAt,omitempty"`
	AverageTimeBetweenEvents *float64       `json:"averageTimeBetweenEvents,omitempty"`
}
