// Package readmodel holds the denormalized views maintained by event
// subscribers. These rows are disposable: the event streams remain the
// source of truth and any view can be rebuilt by replay.
package readmodel

// Role values recognized by the access-control checks
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleClient     = "client"
)

// User is the denormalized user view
type User struct {
	ID       string `json:"id" dynamodbav:"Id"`
	Name     string `json:"name" dynamodbav:"Name"`
	Email    string `json:"email" dynamodbav:"Email"`
	DOB      string `json:"dob,omitempty" dynamodbav:"DOB,omitempty"`
	Role     string `json:"role" dynamodbav:"Role"`
	Password string `json:"-" dynamodbav:"Password"`
}

// IsPrivileged reports whether the role may read other users' data
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
