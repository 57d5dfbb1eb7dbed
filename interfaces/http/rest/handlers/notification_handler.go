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

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// CreateNotification handles POST /notifications
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var cmd commands.CreateNotificationCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}

	// Clients can only notify themselves
	if !readmodel.IsPrivileged(userCtx.Role) {
		cmd.UserID = userCtx.UserID
	} else if cmd.UserID == "" {
		cmd.UserID = userCtx.UserID
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, result)
}

// ListNotifications handles GET /notifications?unreadOnly=
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListNotificationsQuery{
		RequesterID:   userCtx.UserID,
		RequesterRole: userCtx.Role,
		UnreadOnly:    r.URL.Query().Get("unreadOnly") == "true",
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// NotificationStats handles GET /notifications/stats
func (h *NotificationHandler) NotificationStats(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.NotificationStatsQuery{
		RequesterID:   userCtx.UserID,
		RequesterRole: userCtx.Role,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetNotification handles GET /notifications/{notificationID}
func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetNotificationQuery{
		NotificationID: chi.URLParam(r, "notificationID"),
		RequesterID:    userCtx.UserID,
		RequesterRole:  userCtx.Role,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// MarkRead handles PATCH /notifications/{notificationID}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.MarkNotificationReadCommand{
		NotificationID: chi.URLParam(r, "notificationID"),
		RequesterID:    userCtx.UserID,
		RequesterRole:  userCtx.Role,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// MarkAllRead handles PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.MarkAllNotificationsReadCommand{
		RequesterID: userCtx.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteNotification handles DELETE /notifications/{notificationID}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	_, err = h.commandBus.Send(r.Context(), commands.DeleteNotificationCommand{
		NotificationID: chi.URLParam(r, "notificationID"),
		RequesterID:    userCtx.UserID,
		RequesterRole:  userCtx.Role,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
