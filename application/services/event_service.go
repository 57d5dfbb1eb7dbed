// Package services wires the write path: persist first, then fan out.
package services

import (
	"context"

	"eventbase/application/ports"
	"eventbase/domain/events"
	apperrors "eventbase/pkg/errors"

	"go.uber.org/zap"
)

// EventService is the single write-side entry point. It appends the record
// to the stream store and, on success, hands it to the dispatcher. Dispatch
// is fire-and-forget: the append has already committed and subscriber
// failures never surface to the producer.
type EventService struct {
	store      ports.StreamStore
	dispatcher ports.Dispatcher
	logger     *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(store ports.StreamStore, dispatcher ports.Dispatcher, logger *zap.Logger) *EventService {
	return &EventService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

var _ ports.EventAppender = (*EventService)(nil)

// Append persists one record and signals subscribers
func (s *EventService) Append(ctx context.Context, aggregateID string, name events.EventName, payload events.Payload) (events.Record, error) {
	if aggregateID == "" {
		return events.Record{}, apperrors.NewValidationError("aggregate id is required")
	}

	record, err := s.store.Append(ctx, aggregateID, name, payload)
	if err != nil {
		return events.Record{}, err
	}

	s.logger.Debug("Event appended",
		zap.String("aggregateId", aggregateID),
		zap.String("eventName", name.String()),
	)

	s.dispatcher.Dispatch(aggregateID, record)
	return record, nil
}
