package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayload(t *testing.T) {
	t.Run("Set and SetNull chain", func(t *testing.T) {
		payload := Payload{}.Set("name", "Ada").SetNull("dob")

		require.Equal(t, "Ada", payload["name"])
		value, ok := payload["dob"]
		require.True(t, ok)
		require.Nil(t, value)
	})

	t.Run("WithoutNulls drops only null fields", func(t *testing.T) {
		payload := Payload{"name": "Ada", "dob": nil, "role": "client"}

		trimmed := payload.WithoutNulls()
		require.Equal(t, Payload{"name": "Ada", "role": "client"}, trimmed)

		// receiver is untouched
		_, ok := payload["dob"]
		require.True(t, ok)
	})

	t.Run("Clone is independent of the original", func(t *testing.T) {
		payload := Payload{"name": "Ada"}
		clone := payload.Clone()
		clone["name"] = "Countess"

		require.Equal(t, "Ada", payload["name"])
	})
}

func TestDescribeChanges(t *testing.T) {
	t.Run("user created lists email then optional fields", func(t *testing.T) {
		changes := DescribeChanges(UserCreated, Payload{
			"email": "ada@example.com",
			"name":  "Ada",
			"role":  "client",
		})

		require.Equal(t, []string{
			"User created with email: ada@example.com",
			"Name set to: Ada",
			"Role set to: client",
		}, changes)
	})

	t.Run("user updated emits sorted field updates skipping nulls and id", func(t *testing.T) {
		changes := DescribeChanges(UserUpdated, Payload{
			"id":    "u1",
			"role":  "admin",
			"email": "lovelace@example.com",
			"dob":   nil,
		})

		require.Equal(t, []string{
			"email updated to: lovelace@example.com",
			"role updated to: admin",
		}, changes)
	})

	t.Run("unknown kinds fall back to a generic line", func(t *testing.T) {
		changes := DescribeChanges(NotificationCreated, Payload{"title": "hi"})
		require.Equal(t, []string{"Event: notification-created-event"}, changes)
	})
}
