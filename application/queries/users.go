package queries

import (
	apperrors "eventbase/pkg/errors"
)

// ListUsersQuery lists the user read model. Privileged roles only.
type ListUsersQuery struct {
	RequesterRole string
}

// Validate validates the ListUsersQuery
func (q ListUsersQuery) Validate() error {
	if q.RequesterRole == "" {
		return apperrors.NewValidationError("requester role is required")
	}
	return nil
}
