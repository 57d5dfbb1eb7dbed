package readmodel

import "time"

// NotificationType classifies a notification for display purposes
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// NotificationPriority orders notifications for display purposes
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is the denormalized notification view
type Notification struct {
	ID        string                 `json:"id" dynamodbav:"Id"`
	Title     string                 `json:"title" dynamodbav:"Title"`
	Message   string                 `json:"message" dynamodbav:"Message"`
	Type      NotificationType       `json:"type" dynamodbav:"Type"`
	Priority  NotificationPriority   `json:"priority" dynamodbav:"Priority"`
	UserID    string                 `json:"userId" dynamodbav:"UserId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" dynamodbav:"Metadata,omitempty"`
	ActionURL string                 `json:"actionUrl,omitempty" dynamodbav:"ActionUrl,omitempty"`
	Read      bool                   `json:"read" dynamodbav:"Read"`
	ReadAt    *time.Time             `json:"readAt,omitempty" dynamodbav:"ReadAt,omitempty"`
	CreatedAt time.Time              `json:"createdAt" dynamodbav:"CreatedAt"`
	ExpiresAt *time.Time             `json:"expiresAt,omitempty" dynamodbav:"ExpiresAt,omitempty"`
}

// NotificationStats summarizes a user's notification inbox
type NotificationStats struct {
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
	Read          int            `json:"read"`
	TypeBreakdown map[string]int `json:"typeBreakdown"`
}
