// Package memory holds mutex-guarded in-process implementations of the
// persistence ports, used in development mode and in tests. They honor the
// same contracts as the DynamoDB implementations, append atomicity
// included.
package memory

import (
	"context"
	"sync"
	"time"

	"eventbase/application/ports"
	"eventbase/domain/events"
	apperrors "eventbase/pkg/errors"
)

// StreamStore implements ports.StreamStore in memory
type StreamStore struct {
	mu      sync.Mutex
	streams map[string][]events.Record
}

// NewStreamStore creates an empty in-memory stream store
func NewStreamStore() *StreamStore {
	return &StreamStore{
		streams: make(map[string][]events.Record),
	}
}

var _ ports.StreamStore = (*StreamStore)(nil)

// Append pushes one record onto the stream, creating it on first write.
// The lock covers the whole upsert-and-push so concurrent appends
// interleave without losing records.
func (s *StreamStore) Append(ctx context.Context, aggregateID string, name events.EventName, payload events.Payload) (events.Record, error) {
	if aggregateID == "" {
		return events.Record{}, apperrors.NewValidationError("aggregate id is required")
	}

	record := events.NewRecord(name, payload, time.Now().UTC())

	s.mu.Lock()
	s.streams[aggregateID] = append(s.streams[aggregateID], record)
	s.mu.Unlock()

	return record, nil
}

// FetchStream returns a copy of the ordered event list. Unknown aggregates
// and empty streams both report ErrStreamNotFound.
func (s *StreamStore) FetchStream(ctx context.Context, aggregateID string) ([]events.Record, error) {
	if aggregateID == "" {
		return nil, apperrors.NewValidationError("aggregate id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream, ok := s.streams[aggregateID]
	if !ok || len(stream) == 0 {
		return nil, ports.ErrStreamNotFound
	}

	out := make([]events.Record, len(stream))
	copy(out, stream)
	return out, nil
}
