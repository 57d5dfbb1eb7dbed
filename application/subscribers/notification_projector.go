package subscribers

import (
	"context"
	"fmt"
	"time"

	"eventbase/application/ports"
	"eventbase/domain/events"
	"eventbase/domain/readmodel"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationProjector maintains the notification read model and produces
// the follow-up notifications triggered by user events. The follow-ups go
// back through the appender, so a user-created append fans out into a second
// notification-created append.
type NotificationProjector struct {
	notifications ports.NotificationRepository
	appender      ports.EventAppender
	logger        *zap.Logger
}

// NewNotificationProjector creates a new notification projector
func NewNotificationProjector(notifications ports.NotificationRepository, appender ports.EventAppender, logger *zap.Logger) *NotificationProjector {
	return &NotificationProjector{
		notifications: notifications,
		appender:      appender,
		logger:        logger,
	}
}

// Register subscribes the projector to notification and user events
func (p *NotificationProjector) Register(dispatcher ports.Dispatcher) {
	dispatcher.Subscribe(events.NotificationCreated, p.onNotificationCreated)
	dispatcher.Subscribe(events.NotificationRead, p.onNotificationRead)
	dispatcher.Subscribe(events.NotificationDeleted, p.onNotificationDeleted)
	dispatcher.Subscribe(events.UserCreated, p.onUserCreated)
	dispatcher.Subscribe(events.UserUpdated, p.onUserUpdated)
}

func (p *NotificationProjector) onNotificationCreated(ctx context.Context, aggregateID string, record events.Record) error {
	notification := &readmodel.Notification{
		ID:        aggregateID,
		Title:     stringField(record.Payload, "title"),
		Message:   stringField(record.Payload, "message"),
		Type:      readmodel.NotificationType(stringField(record.Payload, "type")),
		Priority:  readmodel.NotificationPriority(stringField(record.Payload, "priority")),
		UserID:    stringField(record.Payload, "userId"),
		ActionURL: stringField(record.Payload, "actionUrl"),
		CreatedAt: record.CreatedAt,
	}
	if metadata, ok := record.Payload["metadata"].(map[string]interface{}); ok {
		notification.Metadata = metadata
	}
	return p.notifications.Save(ctx, notification)
}

func (p *NotificationProjector) onNotificationRead(ctx context.Context, aggregateID string, record events.Record) error {
	readAt := record.CreatedAt
	if raw := stringField(record.Payload, "readAt"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			readAt = parsed
		}
	}
	return p.notifications.MarkRead(ctx, aggregateID, readAt)
}

func (p *NotificationProjector) onNotificationDeleted(ctx context.Context, aggregateID string, record events.Record) error {
	return p.notifications.Delete(ctx, aggregateID)
}

// onUserCreated welcomes the new user with a notification of their own
func (p *NotificationProjector) onUserCreated(ctx context.Context, aggregateID string, record events.Record) error {
	name := stringField(record.Payload, "name")
	return p.createFollowUp(ctx, aggregateID, readmodel.NotificationSuccess, readmodel.PriorityMedium,
		"Welcome!",
		fmt.Sprintf("Welcome %s, your account has been created.", name),
	)
}

// onUserUpdated confirms the profile change to the user
func (p *NotificationProjector) onUserUpdated(ctx context.Context, aggregateID string, record events.Record) error {
	return p.createFollowUp(ctx, aggregateID, readmodel.NotificationInfo, readmodel.PriorityLow,
		"Profile updated",
		"Your profile details have been updated.",
	)
}

func (p *NotificationProjector) createFollowUp(ctx context.Context, userID string, kind readmodel.NotificationType, priority readmodel.NotificationPriority, title, message string) error {
	id := uuid.NewString()
	payload := events.Payload{}.
		Set("id", id).
		Set("userId", userID).
		Set("title", title).
		Set("message", message).
		Set("type", string(kind)).
		Set("priority", string(priority))

	if _, err := p.appender.Append(ctx, id, events.NotificationCreated, payload); err != nil {
		p.logger.Error("Failed to append follow-up notification",
			zap.String("userId", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
