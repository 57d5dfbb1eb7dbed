package queries

import (
	apperrors "eventbase/pkg/errors"
)

// ListNotificationsQuery lists notifications visible to the requester.
// Clients only see their own; privileged roles see all.
type ListNotificationsQuery struct {
	RequesterID   string
	RequesterRole string
	UnreadOnly    bool
}

// Validate validates the ListNotificationsQuery
func (q ListNotificationsQuery) Validate() error {
	if q.RequesterID == "" {
		return apperrors.NewValidationError("requester id is required")
	}
	return nil
}

// GetNotificationQuery fetches one notification, scoped by requester role
type GetNotificationQuery struct {
	NotificationID string
	RequesterID    string
	RequesterRole  string
}

// Validate validates the GetNotificationQuery
func (q GetNotificationQuery) Validate() error {
	if q.NotificationID == "" {
		return apperrors.NewValidationError("notification id is required")
	}
	if q.RequesterID == "" {
		return apperrors.NewValidationError("requester id is required")
	}
	return nil
}

// NotificationStatsQuery summarizes the requester's notification inbox
type NotificationStatsQuery struct {
	RequesterID   string
	RequesterRole string
}

// Validate validates the NotificationStatsQuery
func (q NotificationStatsQuery) Validate() error {
	if q.RequesterID == "" {
		return apperrors.NewValidationError("requester id is required")
	}
	return nil
}
