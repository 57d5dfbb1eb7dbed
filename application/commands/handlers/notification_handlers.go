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
)

// CreateNotificationHandler handles the CreateNotificationCommand
type CreateNotificationHandler struct {
	appender ports.EventAppender
	logger   *zap.Logger
}

// NewCreateNotificationHandler creates a new handler instance
func NewCreateNotificationHandler(appender ports.EventAppender, logger *zap.Logger) *CreateNotificationHandler {
	return &CreateNotificationHandler{
		appender: appender,
		logger:   logger,
	}
}

// Handle appends a notification-created-event to a fresh stream. The read
// model row is written by the notification projector.
func (h *CreateNotificationHandler) Handle(ctx context.Context, cmd commands.CreateNotificationCommand) (*readmodel.Notification, error) {
	kind := cmd.Type
	if kind == "" {
		kind = string(readmodel.NotificationInfo)
	}
	priority := cmd.Priority
	if priority == "" {
		priority = string(readmodel.PriorityMedium)
	}

	id := uuid.NewString()
	payload := events.Payload{}.
		Set("id", id).
		Set("userId", cmd.UserID).
		Set("title", cmd.Title).
		Set("message", cmd.Message).
		Set("type", kind).
		Set("priority", priority)
	if cmd.Metadata != nil {
		payload.Set("metadata", cmd.Metadata)
	}
	if cmd.ActionURL != "" {
		payload.Set("actionUrl", cmd.ActionURL)
	}

	record, err := h.appender.Append(ctx, id, events.NotificationCreated, payload)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Notification created",
		zap.String("notificationId", id),
		zap.String("userId", cmd.UserID),
	)

	return &readmodel.Notification{
		ID:        id,
		Title:     cmd.Title,
		Message:   cmd.Message,
		Type:      readmodel.NotificationType(kind),
		Priority:  readmodel.NotificationPriority(priority),
		UserID:    cmd.UserID,
		Metadata:  cmd.Metadata,
		ActionURL: cmd.ActionURL,
		CreatedAt: record.CreatedAt,
	}, nil
}

// MarkNotificationReadHandler handles the MarkNotificationReadCommand
type MarkNotificationReadHandler struct {
	appender      ports.EventAppender
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewMarkNotificationReadHandler creates a new handler instance
func NewMarkNotificationReadHandler(appender ports.EventAppender, notifications ports.NotificationRepository, logger *zap.Logger) *MarkNotificationReadHandler {
	return &MarkNotificationReadHandler{
		appender:      appender,
		notifications: notifications,
		logger:        logger,
	}
}

// Handle appends a notification-read-event. Already-read notifications are
// returned unchanged without a new event.
func (h *MarkNotificationReadHandler) Handle(ctx context.Context, cmd commands.MarkNotificationReadCommand) (*readmodel.Notification, error) {
	notification, err := h.notifications.GetByID(ctx, cmd.NotificationID)
	if err != nil {
		return nil, err
	}
	if !readmodel.IsPrivileged(cmd.RequesterRole) && notification.UserID != cmd.RequesterID {
		return nil, apperrors.NewForbiddenError("notification belongs to another user")
	}
	if notification.Read {
		return notification, nil
	}

	readAt := time.Now().UTC()
	payload := events.Payload{}.
		Set("id", cmd.NotificationID).
		Set("read", true).
		Set("readAt", readAt.Format(time.RFC3339Nano))
	if _, err := h.appender.Append(ctx, cmd.NotificationID, events.NotificationRead, payload); err != nil {
		return nil, err
	}

	notification.Read = true
	notification.ReadAt = &readAt
	return notification, nil
}

// MarkAllReadResult reports how many notifications a bulk read touched
type MarkAllReadResult struct {
	Updated int `json:"updated"`
}

// MarkAllNotificationsReadHandler handles the MarkAllNotificationsReadCommand
type MarkAllNotificationsReadHandler struct {
	appender      ports.EventAppender
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewMarkAllNotificationsReadHandler creates a new handler instance
func NewMarkAllNotificationsReadHandler(appender ports.EventAppender, notifications ports.NotificationRepository, logger *zap.Logger) *MarkAllNotificationsReadHandler {
	return &MarkAllNotificationsReadHandler{
		appender:      appender,
		notifications: notifications,
		logger:        logger,
	}
}

// Handle appends one notification-read-event per unread notification of the
// requester. A failed append stops the sweep; earlier appends stand.
func (h *MarkAllNotificationsReadHandler) Handle(ctx context.Context, cmd commands.MarkAllNotificationsReadCommand) (*MarkAllReadResult, error) {
	unread, err := h.notifications.List(ctx, ports.NotificationFilter{
		UserID:     cmd.RequesterID,
		UnreadOnly: true,
	})
	if err != nil {
		return nil, err
	}

	readAt := time.Now().UTC().Format(time.RFC3339Nano)
	updated := 0
	for _, n := range unread {
		payload := events.Payload{}.
			Set("id", n.ID).
			Set("read", true).
			Set("readAt", readAt)
		if _, err := h.appender.Append(ctx, n.ID, events.NotificationRead, payload); err != nil {
			return &MarkAllReadResult{Updated: updated}, err
		}
		updated++
	}

	h.logger.Info("Marked all notifications read",
		zap.String("userId", cmd.RequesterID),
		zap.Int("updated", updated),
	)
	return &MarkAllReadResult{Updated: updated}, nil
}

// DeleteNotificationHandler handles the DeleteNotificationCommand
type DeleteNotificationHandler struct {
	appender      ports.EventAppender
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewDeleteNotificationHandler creates a new handler instance
func NewDeleteNotificationHandler(appender ports.EventAppender, notifications ports.NotificationRepository, logger *zap.Logger) *DeleteNotificationHandler {
	return &DeleteNotificationHandler{
		appender:      appender,
		notifications: notifications,
		logger:        logger,
	}
}

// Handle appends a notification-deleted-event. The stream keeps its full
// history; only the projector removes the read model row.
func (h *DeleteNotificationHandler) Handle(ctx context.Context, cmd commands.DeleteNotificationCommand) (interface{}, error) {
	notification, err := h.notifications.GetByID(ctx, cmd.NotificationID)
	if err != nil {
		return nil, err
	}
	if !readmodel.IsPrivileged(cmd.RequesterRole) && notification.UserID != cmd.RequesterID {
		return nil, apperrors.NewForbiddenError("notification belongs to another user")
	}

	payload := events.Payload{}.
		Set("id", cmd.NotificationID).
		Set("deleted", true)
	if _, err := h.appender.Append(ctx, cmd.NotificationID, events.NotificationDeleted, payload); err != nil {
		return nil, err
	}

	h.logger.Info("Notification deleted", zap.String("notificationId", cmd.NotificationID))
	return nil, nil
}
