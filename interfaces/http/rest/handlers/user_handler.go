package handlers

import (
	"encoding/json"
	"net/http"

	"eventbase/application/commands"
	"eventbase/application/commands/bus"
	"eventbase/application/queries"
	querybus "eventbase/application/queries/bus"
	"eventbase/domain/readmodel"
	"eventbase/pkg/auth"
	"eventbase/pkg/common"
	apperrors "eventbase/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateUserCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, result)
}

// SignIn handles POST /users/signin
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SignInCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// UpdateUser handles PUT /users/{userID}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var cmd commands.UpdateUserCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	cmd.UserID = chi.URLParam(r, "userID")

	// Users touch their own profile; privileged roles touch anyone's. Role
	// changes stay privileged-only.
	if userCtx.UserID != cmd.UserID && !readmodel.IsPrivileged(userCtx.Role) {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("cannot update another user"))
		return
	}
	if cmd.Role != nil && !readmodel.IsPrivileged(userCtx.Role) {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("cannot change role"))
		return
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListUsersQuery{
		RequesterRole: userCtx.Role,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
