package events

import (
	"time"
)

// EventName identifies the kind of a recorded event.
// The enumeration is closed on the write side but the store itself is
// schema-agnostic: unrecognized names are accepted and stored untouched.
type EventName string

const (
	UserCreated         EventName = "user-created-event"
	UserUpdated         EventName = "user-updated-event"
	NotificationCreated EventName = "notification-created-event"
	NotificationRead    EventName = "notification-read-event"
	NotificationDeleted EventName = "notification-deleted-event"
)

// String returns the event name as a plain string
func (n EventName) String() string {
	return string(n)
}

// Payload is a partial patch to an aggregate's state, mapping field name to
// value. Each field is in one of three states:
//   - present with a value: the field is set to that value on replay
//   - present with a nil value (an explicit null): "no information", never
//     "clear this field" - the field is skipped on replay
//   - absent: not mentioned by this event
type Payload map[string]interface{}

// Set records a field with a value
func (p Payload) Set(field string, value interface{}) Payload {
	p[field] = value
	return p
}

// SetNull records a field as explicitly null
func (p Payload) SetNull(field string) Payload {
	p[field] = nil
	return p
}

// WithoutNulls returns a copy of the payload with explicitly-null fields
// removed. The receiver is not modified.
func (p Payload) WithoutNulls() Payload {
	out := make(Payload, len(p))
	for field, value := range p {
		if value == nil {
			continue
		}
		out[field] = value
	}
	return out
}

// Clone returns a shallow copy of the payload
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for field, value := range p {
		out[field] = value
	}
	return out
}

// Record is the immutable unit of history: one fact appended to an
// aggregate's stream. CreatedAt is assigned at append time; append order,
// not timestamp order, is authoritative for replay.
type Record struct {
	Name      EventName `json:"eventName" dynamodbav:"EventName"`
	Payload   Payload   `json:"payload" dynamodbav:"Payload"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"CreatedAt"`
}

// NewRecord creates a record stamped with the given time
func NewRecord(name EventName, payload Payload, at time.Time) Record {
	return Record{
		Name:      name,
		Payload:   payload,
		CreatedAt: at,
	}
}
