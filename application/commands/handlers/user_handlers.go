package handlers

import (
	"context"
	"time"

	"eventbase/application/commands"
	"eventbase/application/ports"
	"eventbase/domain/events"
	"eventbase/domain/readmodel"
	apperrors "eventbase/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// CreateUserHandler handles the CreateUserCommand
type CreateUserHandler struct {
	appender ports.EventAppender
	users    ports.UserRepository
	logger   *zap.Logger
}

// NewCreateUserHandler creates a new handler instance
func NewCreateUserHandler(appender ports.EventAppender, users ports.UserRepository, logger *zap.Logger) *CreateUserHandler {
	return &CreateUserHandler{
		appender: appender,
		users:    users,
		logger:   logger,
	}
}

// Handle registers a new user: unique-email check, bcrypt hash, then a
// user-created-event appended to a fresh stream. The read model row is
// written by the user projector when the event is dispatched.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd commands.CreateUserCommand) (*readmodel.User, error) {
	if _, err := h.users.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, apperrors.NewConflictError("email is already registered")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	role := cmd.Role
	if role == "" {
		role = readmodel.RoleClient
	}

	id := uuid.NewString()
	payload := events.Payload{}.
		Set("id", id).
		Set("name", cmd.Name).
		Set("email", cmd.Email).
		Set("role", role).
		Set("password", string(hash))
	if cmd.DOB != "" {
		payload.Set("dob", cmd.DOB)
	}

	if _, err := h.appender.Append(ctx, id, events.UserCreated, payload); err != nil {
		return nil, err
	}

	h.logger.Info("User created",
		zap.String("userId", id),
		zap.String("role", role),
	)

	return &readmodel.User{
		ID:    id,
		Name:  cmd.Name,
		Email: cmd.Email,
		DOB:   cmd.DOB,
		Role:  role,
	}, nil
}

// UpdateUserHandler handles the UpdateUserCommand
type UpdateUserHandler struct {
	appender ports.EventAppender
	users    ports.UserRepository
	logger   *zap.Logger
}

// NewUpdateUserHandler creates a new handler instance
func NewUpdateUserHandler(appender ports.EventAppender, users ports.UserRepository, logger *zap.Logger) *UpdateUserHandler {
	return &UpdateUserHandler{
		appender: appender,
		users:    users,
		logger:   logger,
	}
}

// Handle appends a user-updated-event. Untouched fields are recorded as
// explicit nulls so replay skips over them.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd commands.UpdateUserCommand) (*readmodel.User, error) {
	existing, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil && *cmd.Email != existing.Email {
		if _, err := h.users.GetByEmail(ctx, *cmd.Email); err == nil {
			return nil, apperrors.NewConflictError("email is already registered")
		} else if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}

	payload := events.Payload{}.Set("id", cmd.UserID)
	updated := *existing

	setOrNull(payload, "name", cmd.Name)
	setOrNull(payload, "email", cmd.Email)
	setOrNull(payload, "dob", cmd.DOB)
	setOrNull(payload, "role", cmd.Role)
	if cmd.Name != nil {
		updated.Name = *cmd.Name
	}
	if cmd.Email != nil {
		updated.Email = *cmd.Email
	}
	if cmd.DOB != nil {
		updated.DOB = *cmd.DOB
	}
	if cmd.Role != nil {
		updated.Role = *cmd.Role
	}

	if cmd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*cmd.Password), bcryptCost)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to hash password")
		}
		payload.Set("password", string(hash))
		updated.Password = string(hash)
	} else {
		payload.SetNull("password")
	}

	if _, err := h.appender.Append(ctx, cmd.UserID, events.UserUpdated, payload); err != nil {
		return nil, err
	}

	h.logger.Info("User updated", zap.String("userId", cmd.UserID))
	updated.Password = ""
	return &updated, nil
}

func setOrNull(p events.Payload, field string, value *string) {
	if value == nil {
		p.SetNull(field)
		return
	}
	p.Set(field, *value)
}

// SignInResult carries the issued token and the authenticated user
type SignInResult struct {
	Token string          `json:"token"`
	User  *readmodel.User `json:"user"`
}

// TokenIssuer signs session tokens for authenticated users
type TokenIssuer interface {
	Issue(userID, role string, ttl time.Duration) (string, error)
}

// SignInHandler handles the SignInCommand
type SignInHandler struct {
	users  ports.UserRepository
	issuer TokenIssuer
	logger *zap.Logger
}

// NewSignInHandler creates a new handler instance
func NewSignInHandler(users ports.UserRepository, issuer TokenIssuer, logger *zap.Logger) *SignInHandler {
	return &SignInHandler{
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

const sessionTTL = 24 * time.Hour

// Handle exchanges credentials for a signed session token
func (h *SignInHandler) Handle(ctx context.Context, cmd commands.SignInCommand) (*SignInResult, error) {
	user, err := h.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(cmd.Password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := h.issuer.Issue(user.ID, user.Role, sessionTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue token")
	}

	h.logger.Info("User signed in", zap.String("userId", user.ID))
	user.Password = ""
	return &SignInResult{Token: token, User: user}, nil
}
