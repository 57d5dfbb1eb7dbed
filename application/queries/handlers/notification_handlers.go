package handlers

import (
	"context"

	"eventbase/application/ports"
	"eventbase/application/queries"
	"eventbase/domain/readmodel"
	apperrors "eventbase/pkg/errors"

	"go.uber.org/zap"
)

// ListNotificationsHandler handles the ListNotificationsQuery
type ListNotificationsHandler struct {
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewListNotificationsHandler creates a new handler instance
func NewListNotificationsHandler(notifications ports.NotificationRepository, logger *zap.Logger) *ListNotificationsHandler {
	return &ListNotificationsHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// Handle lists notifications scoped to the requester. Privileged roles see
// every user's notifications, clients only their own.
func (h *ListNotificationsHandler) Handle(ctx context.Context, query queries.ListNotificationsQuery) ([]*readmodel.Notification, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ports.NotificationFilter{UnreadOnly: query.UnreadOnly}
	if !readmodel.IsPrivileged(query.RequesterRole) {
		filter.UserID = query.RequesterID
	}
	return h.notifications.List(ctx, filter)
}

// GetNotificationHandler handles the GetNotificationQuery
type GetNotificationHandler struct {
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewGetNotificationHandler creates a new handler instance
func NewGetNotificationHandler(notifications ports.NotificationRepository, logger *zap.Logger) *GetNotificationHandler {
	return &GetNotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// Handle fetches one notification, refusing cross-user access for clients
func (h *GetNotificationHandler) Handle(ctx context.Context, query queries.GetNotificationQuery) (*readmodel.Notification, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notification, err := h.notifications.GetByID(ctx, query.NotificationID)
	if err != nil {
		return nil, err
	}
	if !readmodel.IsPrivileged(query.RequesterRole) && notification.UserID != query.RequesterID {
		return nil, apperrors.NewForbiddenError("notification belongs to another user")
	}
	return notification, nil
}

// NotificationStatsHandler handles the NotificationStatsQuery
type NotificationStatsHandler struct {
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationStatsHandler creates a new handler instance
func NewNotificationStatsHandler(notifications ports.NotificationRepository, logger *zap.Logger) *NotificationStatsHandler {
	return &NotificationStatsHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// Handle summarizes the requester's inbox: totals, unread count and a
// per-type breakdown.
func (h *NotificationStatsHandler) Handle(ctx context.Context, query queries.NotificationStatsQuery) (*readmodel.NotificationStats, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.notifications.List(ctx, ports.NotificationFilter{UserID: query.RequesterID})
	if err != nil {
		return nil, err
	}

	stats := &readmodel.NotificationStats{
		Total:         len(all),
		TypeBreakdown: make(map[string]int),
	}
	for _, n := range all {
		if n.Read {
			stats.Read++
		} else {
			stats.Unread++
		}
		stats.TypeBreakdown[string(n.Type)]++
	}
	return stats, nil
}
