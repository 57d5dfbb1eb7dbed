// Package projection derives materialized state from ordered event records.
// All functions are pure: they never mutate their inputs and never touch
// storage, so replaying the same prefix of a stream always yields the same
// state.
package projection

import (
	"eventbase/domain/events"
)

// State is the materialized view of an aggregate, derived on every read and
// never persisted. It always carries the aggregate id under "id".
type State map[string]interface{}

// Replay left-folds the given records into a state seeded with
// {id: seedID}. Each payload is merged field by field, later events
// overriding earlier ones, except that explicitly-null fields carry no
// information and never overwrite a previously set value.
//
// An empty input yields {id: seedID}; callers decide whether that counts
// as "entity not found".
func Replay(records []events.Record, seedID string) State {
	state := State{"id": seedID}
	for _, record := range records {
		for field, value := range record.Payload {
			if value == nil {
				continue
			}
			state[field] = value
		}
	}
	return state
}
