package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testCommand struct {
	valid bool
}

func (c testCommand) Validate() error {
	if !c.valid {
		return errors.New("invalid command")
	}
	return nil
}

func TestCommandBus(t *testing.T) {
	t.Run("routes to the registered handler", func(t *testing.T) {
		b := NewCommandBus()
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(
			func(ctx context.Context, cmd Command) (interface{}, error) {
				return "handled", nil
			})))

		result, err := b.Send(context.Background(), testCommand{valid: true})
		require.NoError(t, err)
		require.Equal(t, "handled", result)
	})

	t.Run("validation failure short-circuits", func(t *testing.T) {
		b := NewCommandBus()
		called := false
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(
			func(ctx context.Context, cmd Command) (interface{}, error) {
				called = true
				return nil, nil
			})))

		_, err := b.Send(context.Background(), testCommand{valid: false})
		require.Error(t, err)
		require.False(t, called)
	})

	t.Run("unregistered command is an error", func(t *testing.T) {
		b := NewCommandBus()
		_, err := b.Send(context.Background(), testCommand{valid: true})
		require.Error(t, err)
	})

	t.Run("double registration is rejected", func(t *testing.T) {
		b := NewCommandBus()
		handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
			return nil, nil
		})
		require.NoError(t, b.Register(testCommand{}, handler))
		require.Error(t, b.Register(testCommand{}, handler))
	})
}
