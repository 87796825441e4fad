package users

import (
	"fmt"
	"time"
)

// RoleType represents a role an account holds, either globally or within a center
type RoleType string

const (
	// Global role, memberships carry no tenant and authorize every center
	RoleSuperAdmin RoleType = "super_admin"

	// Center-scoped roles
	RoleCenterAdmin RoleType = "center_admin" // Manages teachers, students and parents of a center
	RoleTeacher     RoleType = "teacher"      // Runs memorization circles within a center
	RoleParent      RoleType = "parent"       // Follows the progress of their children
	RoleStudent     RoleType = "student"      // Memorizes, earns points and badges
)

var knownRoles = map[RoleType]struct{}{
	RoleSuperAdmin:  {},
	RoleCenterAdmin: {},
	RoleTeacher:     {},
	RoleParent:      {},
	RoleStudent:     {},
}

// Valid reports whether r belongs to the closed set of roles.
func (r RoleType) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

// IsGlobal reports whether memberships of this role bypass tenant scoping.
func (r RoleType) IsGlobal() bool {
	return r == RoleSuperAdmin
}

// ParseRole converts a stored role name into a RoleType.
func ParseRole(s string) (RoleType, error) {
	r := RoleType(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// User is an account in the directory.
type User struct {
	ID          string    `json:"id"`                    // Unique identifier for the account
	DisplayName string    `json:"displayName"`           // Human facing name, not unique
	Email       string    `json:"email,omitempty"`       // Contact email, may be a placeholder
	LoginHandle string    `json:"-"`                     // Canonical handle for credential checks - never serialize
	Active      bool      `json:"active"`                // Deactivated accounts can't sign in
	CreatedAt   time.Time `json:"createdAt,omitempty"`   // Registration time, orders name collisions
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`   // Last administrative change
	LastLogin   time.Time `json:"lastLogin,omitempty"`   // Last successful sign in
}

// HasEmail reports whether a contact email is on record.
func (u *User) HasEmail() bool {
	return u.Email != ""
}
