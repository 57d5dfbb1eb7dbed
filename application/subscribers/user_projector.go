// Package subscribers holds the event consumers that keep the read models
// in step with the streams. Projectors are idempotent: re-delivering a
// record overwrites the row with the same values.
package subscribers

import (
	"context"

	"eventbase/application/ports"
	"eventbase/domain/events"
	"eventbase/domain/readmodel"
	apperrors "eventbase/pkg/errors"

	"go.uber.org/zap"
)

// UserProjector maintains the user read model from user events
type UserProjector struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewUserProjector creates a new user projector
func NewUserProjector(users ports.UserRepository, logger *zap.Logger) *UserProjector {
	return &UserProjector{
		users:  users,
		logger: logger,
	}
}

// Register subscribes the projector to the user events
func (p *UserProjector) Register(dispatcher ports.Dispatcher) {
	dispatcher.Subscribe(events.UserCreated, p.onUserCreated)
	dispatcher.Subscribe(events.UserUpdated, p.onUserUpdated)
}

func (p *UserProjector) onUserCreated(ctx context.Context, aggregateID string, record events.Record) error {
	user := &readmodel.User{
		ID:       aggregateID,
		Name:     stringField(record.Payload, "name"),
		Email:    stringField(record.Payload, "email"),
		DOB:      stringField(record.Payload, "dob"),
		Role:     stringField(record.Payload, "role"),
		Password: stringField(record.Payload, "password"),
	}
	return p.users.Save(ctx, user)
}

func (p *UserProjector) onUserUpdated(ctx context.Context, aggregateID string, record events.Record) error {
	user, err := p.users.GetByID(ctx, aggregateID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Row lost or never projected: rebuild what this event carries.
			p.logger.Warn("User row missing on update, reprojecting partial row",
				zap.String("userId", aggregateID),
			)
			user = &readmodel.User{ID: aggregateID}
		} else {
			return err
		}
	}

	applyString(record.Payload, "name", &user.Name)
	applyString(record.Payload, "email", &user.Email)
	applyString(record.Payload, "dob", &user.DOB)
	applyString(record.Payload, "role", &user.Role)
	applyString(record.Payload, "password", &user.Password)
	return p.users.Save(ctx, user)
}

// stringField reads a string payload field, tolerating absence and nulls
func stringField(p events.Payload, field string) string {
	if v, ok := p[field].(string); ok {
		return v
	}
	return ""
}

// applyString overwrites dst only when the field carries a value. Explicit
// nulls and absent fields leave dst alone.
func applyString(p events.Payload, field string, dst *string) {
	if v, ok := p[field].(string); ok {
		*dst = v
	}
}
