package commands

import (
	"eventbase/pkg/utils"
)

// CreateNotificationCommand represents the command to create a notification
type CreateNotificationCommand struct {
	UserID    string                 `json:"userId" validate:"required"`
	Title     string                 `json:"title" validate:"required,min=1,max=200"`
	Message   string                 `json:"message" validate:"required,max=2000"`
	Type      string                 `json:"type" validate:"omitempty,oneof=info success warning error"`
	Priority  string                 `json:"priority" validate:"omitempty,oneof=low medium high"`
	Metadata  map[string]interface{} `json:"metadata"`
	ActionURL string                 `json:"actionUrl" validate:"omitempty,url"`
}

// Validate validates the command
func (cmd CreateNotificationCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// MarkNotificationReadCommand marks one notification as read
type MarkNotificationReadCommand struct {
	NotificationID string `json:"notificationId" validate:"required"`
	RequesterID    string `json:"-" validate:"required"`
	RequesterRole  string `json:"-"`
}

// Validate validates the command
func (cmd MarkNotificationReadCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// MarkAllNotificationsReadCommand marks every unread notification of the
// requester as read
type MarkAllNotificationsReadCommand struct {
	RequesterID string `json:"-" validate:"required"`
}

// Validate validates the command
func (cmd MarkAllNotificationsReadCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DeleteNotificationCommand retires a notification. The stream keeps its
// history; only the read model row is removed.
type DeleteNotificationCommand struct {
	NotificationID string `json:"notificationId" validate:"required"`
	RequesterID    string `json:"-" validate:"required"`
	RequesterRole  string `json:"-"`
}

// Validate validates the command
func (cmd DeleteNotificationCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
