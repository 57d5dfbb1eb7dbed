package handlers

import (
	"context"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/readmodel"
	apperrors "eventbase/pkg/errors"

	"go.uber.org/zap"
)

// ListUsersHandler handles the ListUsersQuery
type ListUsersHandler struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewListUsersHandler creates a new handler instance
func NewListUsersHandler(users ports.UserRepository, logger *zap.Logger) *ListUsersHandler {
	return &ListUsersHandler{
		users:  users,
		logger: logger,
	}
}

// Handle lists the user read model for privileged requesters
func (h *ListUsersHandler) Handle(ctx context.Context, query queries.ListUsersQuery) ([]*readmodel.User, error) {
	if !readmodel.IsPrivileged(query.RequesterRole) {
		return nil, apperrors.NewForbiddenError("insufficient role to list users")
	}
	return h.users.List(ctx)
}
