package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated user through the request context
type UserContext struct {
	UserID string
	Role   string
}

type contextKey struct{}

var userContextKey = contextKey{}

// ErrNoUserInContext is returned when no authenticated user is attached
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext attaches the authenticated user to the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the authenticated user, if any
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
