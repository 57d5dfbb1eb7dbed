package commands

import (
	apperrors "eventbase/pkg/errors"
	"eventbase/pkg/utils"
)

// CreateUserCommand represents the command to register a new user
type CreateUserCommand struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	DOB      string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Role     string `json:"role" validate:"omitempty,oneof=superadmin admin client"`
}

// Validate validates the command
func (cmd CreateUserCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UpdateUserCommand represents the command to update an existing user.
// Nil pointer fields are untouched; the appended event carries explicit
// nulls for them so replay leaves the prior values in place.
type UpdateUserCommand struct {
	UserID   string  `json:"userId" validate:"required"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	DOB      *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Role     *string `json:"role" validate:"omitempty,oneof=superadmin admin client"`
}

// Validate validates the command
func (cmd UpdateUserCommand) Validate() error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}
	if cmd.Name == nil && cmd.Email == nil && cmd.Password == nil && cmd.DOB == nil && cmd.Role == nil {
		return apperrors.NewValidationError("at least one field must be provided")
	}
	return nil
}

// SignInCommand represents the credential exchange for a session token
type SignInCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the command
func (cmd SignInCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
