package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"eventbase/application/ports"
	"eventbase/domain/readmodel"
	apperrors "eventbase/pkg/errors"
)

// UserRepository implements ports.UserRepository in memory
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]readmodel.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]readmodel.User),
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)

// Save writes the full user row
func (r *UserRepository) Save(ctx context.Context, user *readmodel.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

// GetByID fetches one user row
func (r *UserRepository) GetByID(ctx context.Context, id string) (*readmodel.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user")
	}
	return &user, nil
}

// GetByEmail resolves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*readmodel.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user")
}

// List returns every user, password hashes blanked, ordered by id
func (r *UserRepository) List(ctx context.Context) ([]*readmodel.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*readmodel.User, 0, len(r.users))
	for _, user := range r.users {
		out := user
		out.Password = ""
		users = append(users, &out)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// NotificationRepository implements ports.NotificationRepository in memory
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]readmodel.Notification
}

// NewNotificationRepository creates an empty in-memory notification repository
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[string]readmodel.Notification),
	}
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

// Save writes the full notification row
func (r *NotificationRepository) Save(ctx context.Context, notification *readmodel.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[notification.ID] = *notification
	return nil
}

// GetByID fetches one notification row
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*readmodel.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	notification, ok := r.notifications[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("notification")
	}
	return &notification, nil
}

// List returns matching notifications newest first
func (r *NotificationRepository) List(ctx context.Context, filter ports.NotificationFilter) ([]*readmodel.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notifications := make([]*readmodel.Notification, 0)
	for _, notification := range r.notifications {
		if filter.UserID != "" && notification.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && notification.Read {
			continue
		}
		out := notification
		notifications = append(notifications, &out)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// MarkRead flips the Read flag in place
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok {
		return apperrors.NewNotFoundError("notification")
	}
	notification.Read = true
	notification.ReadAt = &readAt
	r.notifications[id] = notification
	return nil
}

// Delete removes the notification row
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notifications, id)
	return nil
}
