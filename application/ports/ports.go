package ports

import (
	"context"
	"errors"
	"time"

	"eventbase/domain/events"
	"eventbase/domain/readmodel"
)

// ErrStreamNotFound is returned by FetchStream when no history exists for
// an aggregate id. Callers decide per operation whether that is an error or
// a soft-empty result.
var ErrStreamNotFound = errors.New("stream not found")

// StreamStore defines the interface for aggregate stream persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type StreamStore interface {
	// Append atomically creates-or-appends: if no stream exists for the
	// aggregate id a single-element stream is created, otherwise the record
	// is pushed to the end of the existing sequence. Implementations must
	// perform this as one atomic upsert-and-push, never fetch-then-write.
	Append(ctx context.Context, aggregateID string, name events.EventName, payload events.Payload) (events.Record, error)

	// FetchStream returns the full ordered event sequence for an aggregate.
	// An absent row and a stored row with zero events are both reported as
	// ErrStreamNotFound.
	FetchStream(ctx context.Context, aggregateID string) ([]events.Record, error)
}

// EventAppender is the write-side surface handed to producers: persist the
// record, then signal subscribers. Subscriber delivery is outside the
// append's atomicity boundary.
type EventAppender interface {
	Append(ctx context.Context, aggregateID string, name events.EventName, payload events.Payload) (events.Record, error)
}

// Subscriber receives records after a successful append. A subscriber may
// itself append again; implementations of Dispatcher must tolerate that
// re-entrancy without blocking the originating append.
type Subscriber func(ctx context.Context, aggregateID string, record events.Record) error

// Dispatcher fans appended records out to in-process subscribers
type Dispatcher interface {
	// Subscribe registers interest in one event kind
	Subscribe(name events.EventName, subscriber Subscriber)

	// SubscribeAll registers interest in every event kind
	SubscribeAll(subscriber Subscriber)

	// Dispatch hands a record to subscribers, fire-and-forget: it returns
	// immediately and subscriber failures are isolated and logged, never
	// propagated to the caller.
	Dispatch(aggregateID string, record events.Record)
}

// UserRepository defines the interface for the user read model
type UserRepository interface {
	Save(ctx context.Context, user *readmodel.User) error
	GetByID(ctx context.Context, id string) (*readmodel.User, error)
	GetByEmail(ctx context.Context, email string) (*readmodel.User, error)
	List(ctx context.Context) ([]*readmodel.User, error)
}

// NotificationFilter narrows notification read-model lookups
type NotificationFilter struct {
	UserID     string // empty means all users
	UnreadOnly bool
}

// NotificationRepository defines the interface for the notification read model
type NotificationRepository interface {
	Save(ctx context.Context, notification *readmodel.Notification) error
	GetByID(ctx context.Context, id string) (*readmodel.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]*readmodel.Notification, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
	Delete(ctx context.Context, id string) error
}
