package projection

import (
	"testing"
	"time"

	"eventbase/domain/events"

	"github.com/stretchr/testify/require"
)

func record(name events.EventName, payload events.Payload, at time.Time) events.Record {
	return events.NewRecord(name, payload, at)
}

func TestReplay(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("empty input yields seed state", func(t *testing.T) {
		state := Replay(nil, "user-1")
		require.Equal(t, State{"id": "user-1"}, state)
	})

	t.Run("later events override earlier ones", func(t *testing.T) {
		records := []events.Record{
			record(events.UserCreated, events.Payload{"name": "Ada", "email": "ada@example.com"}, base),
			record(events.UserUpdated, events.Payload{"name": "Ada Lovelace"}, base.Add(time.Minute)),
		}

		state := Replay(records, "user-1")
		require.Equal(t, "Ada Lovelace", state["name"])
		require.Equal(t, "ada@example.com", state["email"])
		require.Equal(t, "user-1", state["id"])
	})

	t.Run("explicit nulls never overwrite", func(t *testing.T) {
		records := []events.Record{
			record(events.UserCreated, events.Payload{"name": "Ada", "email": "ada@example.com"}, base),
			record(events.UserUpdated, events.Payload{"name": nil, "email": "lovelace@example.com"}, base.Add(time.Minute)),
		}

		state := Replay(records, "user-1")
		require.Equal(t, "Ada", state["name"])
		require.Equal(t, "lovelace@example.com", state["email"])
	})

	t.Run("null for a never-set field leaves it absent", func(t *testing.T) {
		records := []events.Record{
			record(events.UserUpdated, events.Payload{"dob": nil}, base),
		}

		state := Replay(records, "user-1")
		_, ok := state["dob"]
		require.False(t, ok)
	})

	t.Run("same prefix always yields the same state", func(t *testing.T) {
		records := []events.Record{
			record(events.UserCreated, events.Payload{"name": "Ada"}, base),
			record(events.UserUpdated, events.Payload{"role": "admin"}, base.Add(time.Minute)),
			record(events.UserUpdated, events.Payload{"name": "Countess"}, base.Add(2 * time.Minute)),
		}

		first := Replay(records[:2], "user-1")
		second := Replay(records[:2], "user-1")
		require.Equal(t, first, second)
	})

	t.Run("input records are not mutated", func(t *testing.T) {
		payload := events.Payload{"name": "Ada"}
		records := []events.Record{record(events.UserCreated, payload, base)}

		_ = Replay(records, "user-1")
		require.Equal(t, events.Payload{"name": "Ada"}, records[0].Payload)
	})
}

func TestDiff(t *testing.T) {
	t.Run("both nil yields no changes", func(t *testing.T) {
		require.Empty(t, Diff(nil, nil))
	})

	t.Run("changes are sorted by field name", func(t *testing.T) {
		before := State{"id": "u1", "name": "Ada", "role": "client"}
		after := State{"id": "u1", "name": "Countess", "role": "admin"}

		changes := Diff(before, after)
		require.Len(t, changes, 2)
		require.Equal(t, "name", changes[0].Field)
		require.Equal(t, "Ada", changes[0].From)
		require.Equal(t, "Countess", changes[0].To)
		require.Equal(t, "role", changes[1].Field)
	})

	t.Run("field on only one side diffs against nil", func(t *testing.T) {
		before := State{"id": "u1"}
		after := State{"id": "u1", "email": "ada@example.com"}

		changes := Diff(before, after)
		require.Len(t, changes, 1)
		require.Equal(t, "email", changes[0].Field)
		require.Nil(t, changes[0].From)
		require.Equal(t, "ada@example.com", changes[0].To)
	})

	t.Run("identical states yield no changes", func(t *testing.T) {
		state := State{"id": "u1", "name": "Ada"}
		require.Empty(t, Diff(state, state))
	})
}
