package queries

import (
	"eventbase/domain/events"
	apperrors "eventbase/pkg/errors"
)

// EntityEventsQuery returns an entity's raw event records, optionally
// restricted to an allow-list of event kinds. No projection is applied.
type EntityEventsQuery struct {
	EntityID   string
	EventTypes []events.EventName
}

// Validate validates the EntityEventsQuery
func (q EntityEventsQuery) Validate() error {
	if q.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	return nil
}
