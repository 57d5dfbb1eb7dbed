package handlers

import (
	"context"
	"testing"
	"time"

	"eventbase/application/commands"
	"eventbase/domain/events"
	"eventbase/domain/readmodel"
	"eventbase/infrastructure/persistence/memory"
	apperrors "eventbase/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// capturingAppender records every append without persisting or dispatching
type capturingAppender struct {
	appends []capturedAppend
}

type capturedAppend struct {
	aggregateID string
	name        events.EventName
	payload     events.Payload
}

func (a *capturingAppender) Append(ctx context.Context, aggregateID string, name events.EventName, payload events.Payload) (events.Record, error) {
	a.appends = append(a.appends, capturedAppend{aggregateID, name, payload})
	return events.NewRecord(name, payload, time.Now().UTC()), nil
}

func TestCreateUserHandler(t *testing.T) {
	t.Run("appends a created event and defaults the role", func(t *testing.T) {
		appender := &capturingAppender{}
		handler := NewCreateUserHandler(appender, memory.NewUserRepository(), zap.NewNop())

		user, err := handler.Handle(context.Background(), commands.CreateUserCommand{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, readmodel.RoleClient, user.Role)
		require.Empty(t, user.Password)

		require.Len(t, appender.appends, 1)
		appended := appender.appends[0]
		require.Equal(t, events.UserCreated, appended.name)
		require.Equal(t, user.ID, appended.aggregateID)
		require.Equal(t, "ada@example.com", appended.payload["email"])

		// the stored password is a verifiable bcrypt hash, never plaintext
		hash, ok := appended.payload["password"].(string)
		require.True(t, ok)
		require.NotEqual(t, "s3cret-pass", hash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		users := memory.NewUserRepository()
		require.NoError(t, users.Save(context.Background(), &readmodel.User{
			ID:    "u1",
			Email: "taken@example.com",
		}))

		handler := NewCreateUserHandler(&capturingAppender{}, users, zap.NewNop())
		_, err := handler.Handle(context.Background(), commands.CreateUserCommand{
			Name:     "Ada",
			Email:    "taken@example.com",
			Password: "pass",
		})
		require.True(t, apperrors.IsConflict(err))
	})
}

func TestUpdateUserHandler(t *testing.T) {
	seed := func(t *testing.T) (*capturingAppender, *UpdateUserHandler) {
		t.Helper()
		users := memory.NewUserRepository()
		require.NoError(t, users.Save(context.Background(), &readmodel.User{
			ID:    "u1",
			Name:  "Ada",
			Email: "ada@example.com",
			Role:  readmodel.RoleClient,
		}))
		appender := &capturingAppender{}
		return appender, NewUpdateUserHandler(appender, users, zap.NewNop())
	}

	t.Run("untouched fields are explicit nulls", func(t *testing.T) {
		appender, handler := seed(t)
		name := "Ada Lovelace"

		updated, err := handler.Handle(context.Background(), commands.UpdateUserCommand{
			UserID: "u1",
			Name:   &name,
		})
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", updated.Name)
		require.Equal(t, "ada@example.com", updated.Email)

		payload := appender.appends[0].payload
		require.Equal(t, "Ada Lovelace", payload["name"])
		for _, field := range []string{"email", "dob", "role", "password"} {
			value, present := payload[field]
			require.True(t, present, field)
			require.Nil(t, value, field)
		}
	})

	t.Run("unknown user is NotFound", func(t *testing.T) {
		_, handler := seed(t)
		name := "x"
		_, err := handler.Handle(context.Background(), commands.UpdateUserCommand{
			UserID: "ghost",
			Name:   &name,
		})
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("changing to a registered email is a conflict", func(t *testing.T) {
		users := memory.NewUserRepository()
		require.NoError(t, users.Save(context.Background(), &readmodel.User{ID: "u1", Email: "ada@example.com"}))
		require.NoError(t, users.Save(context.Background(), &readmodel.User{ID: "u2", Email: "grace@example.com"}))

		handler := NewUpdateUserHandler(&capturingAppender{}, users, zap.NewNop())
		email := "grace@example.com"
		_, err := handler.Handle(context.Background(), commands.UpdateUserCommand{
			UserID: "u1",
			Email:  &email,
		})
		require.True(t, apperrors.IsConflict(err))
	})
}

func TestSignInHandler(t *testing.T) {
	issuer := stubIssuer{}
	seed := func(t *testing.T) *SignInHandler {
		t.Helper()
		hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
		require.NoError(t, err)
		users := memory.NewUserRepository()
		require.NoError(t, users.Save(context.Background(), &readmodel.User{
			ID:       "u1",
			Email:    "ada@example.com",
			Password: string(hash),
			Role:     readmodel.RoleClient,
		}))
		return NewSignInHandler(users, issuer, zap.NewNop())
	}

	t.Run("valid credentials yield a token and blank the hash", func(t *testing.T) {
		result, err := seed(t).Handle(context.Background(), commands.SignInCommand{
			Email:    "ada@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		require.Equal(t, "token-for-u1", result.Token)
		require.Empty(t, result.User.Password)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := seed(t).Handle(context.Background(), commands.SignInCommand{
			Email:    "ada@example.com",
			Password: "wrong",
		})
		require.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("unknown email is unauthorized not NotFound", func(t *testing.T) {
		_, err := seed(t).Handle(context.Background(), commands.SignInCommand{
			Email:    "ghost@example.com",
			Password: "whatever",
		})
		require.True(t, apperrors.IsUnauthorized(err))
		require.False(t, apperrors.IsNotFound(err))
	})
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID, role string, ttl time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

func TestMarkNotificationReadHandler(t *testing.T) {
	seed := func(t *testing.T, read bool) (*capturingAppender, *MarkNotificationReadHandler) {
		t.Helper()
		notifications := memory.NewNotificationRepository()
		require.NoError(t, notifications.Save(context.Background(), &readmodel.Notification{
			ID:     "n1",
			UserID: "u1",
			Title:  "hello",
			Read:   read,
		}))
		appender := &capturingAppender{}
		return appender, NewMarkNotificationReadHandler(appender, notifications, zap.NewNop())
	}

	t.Run("appends a read event for the owner", func(t *testing.T) {
		appender, handler := seed(t, false)
		notification, err := handler.Handle(context.Background(), commands.MarkNotificationReadCommand{
			NotificationID: "n1",
			RequesterID:    "u1",
			RequesterRole:  readmodel.RoleClient,
		})
		require.NoError(t, err)
		require.True(t, notification.Read)
		require.Len(t, appender.appends, 1)
		require.Equal(t, events.NotificationRead, appender.appends[0].name)
		require.Equal(t, true, appender.appends[0].payload["read"])
	})

	t.Run("already read returns unchanged without a new event", func(t *testing.T) {
		appender, handler := seed(t, true)
		notification, err := handler.Handle(context.Background(), commands.MarkNotificationReadCommand{
			NotificationID: "n1",
			RequesterID:    "u1",
			RequesterRole:  readmodel.RoleClient,
		})
		require.NoError(t, err)
		require.True(t, notification.Read)
		require.Empty(t, appender.appends)
	})

	t.Run("clients cannot touch another user's notification", func(t *testing.T) {
		_, handler := seed(t, false)
		_, err := handler.Handle(context.Background(), commands.MarkNotificationReadCommand{
			NotificationID: "n1",
			RequesterID:    "u2",
			RequesterRole:  readmodel.RoleClient,
		})
		require.True(t, apperrors.IsForbidden(err))
	})

	t.Run("admins may act on any notification", func(t *testing.T) {
		appender, handler := seed(t, false)
		_, err := handler.Handle(context.Background(), commands.MarkNotificationReadCommand{
			NotificationID: "n1",
			RequesterID:    "admin-1",
			RequesterRole:  readmodel.RoleAdmin,
		})
		require.NoError(t, err)
		require.Len(t, appender.appends, 1)
	})
}

func TestMarkAllNotificationsReadHandler(t *testing.T) {
	notifications := memory.NewNotificationRepository()
	for _, n := range []*readmodel.Notification{
		{ID: "n1", UserID: "u1", Read: false},
		{ID: "n2", UserID: "u1", Read: true},
		{ID: "n3", UserID: "u1", Read: false},
		{ID: "n4", UserID: "u2", Read: false},
	} {
		require.NoError(t, notifications.Save(context.Background(), n))
	}

	appender := &capturingAppender{}
	handler := NewMarkAllNotificationsReadHandler(appender, notifications, zap.NewNop())

	result, err := handler.Handle(context.Background(), commands.MarkAllNotificationsReadCommand{
		RequesterID: "u1",
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Updated)
	require.Len(t, appender.appends, 2)
	for _, appended := range appender.appends {
		require.Equal(t, events.NotificationRead, appended.name)
	}
}

func TestDeleteNotificationHandler(t *testing.T) {
	notifications := memory.NewNotificationRepository()
	require.NoError(t, notifications.Save(context.Background(), &readmodel.Notification{
		ID:     "n1",
		UserID: "u1",
	}))

	appender := &capturingAppender{}
	handler := NewDeleteNotificationHandler(appender, notifications, zap.NewNop())

	t.Run("clients cannot delete another user's notification", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), commands.DeleteNotificationCommand{
			NotificationID: "n1",
			RequesterID:    "u2",
			RequesterRole:  readmodel.RoleClient,
		})
		require.True(t, apperrors.IsForbidden(err))
	})

	t.Run("owner delete appends a deleted event", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), commands.DeleteNotificationCommand{
			NotificationID: "n1",
			RequesterID:    "u1",
			RequesterRole:  readmodel.RoleClient,
		})
		require.NoError(t, err)
		require.Len(t, appender.appends, 1)
		require.Equal(t, events.NotificationDeleted, appender.appends[0].name)
		require.Equal(t, true, appender.appends[0].payload["deleted"])
	})
}
