package auth

import (
	"strings"

	"github.com/jrsteele09/hifz-auth/sessions"
	"github.com/jrsteele09/hifz-auth/users"
)

// LoginRequest is what the sign in screen collects.
type LoginRequest struct {
	Identifier string `json:"identifier"`         // Display name or email
	Password   string `json:"password"`           // Never logged
	TenantID   string `json:"tenantId,omitempty"` // Selected center, optional
}

// Normalize trims the identifier and tenant. The password is left untouched.
func (r LoginRequest) Normalize() LoginRequest {
	r.Identifier = strings.TrimSpace(r.Identifier)
	r.TenantID = strings.TrimSpace(r.TenantID)
	return r
}

// Account is the client facing view of a signed in account.
type Account struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"displayName"`
	Email       string            `json:"email,omitempty"`
	Memberships users.Memberships `json:"memberships"`
}

// NewAccount builds the client view of user with its memberships.
func NewAccount(user *users.User, memberships users.Memberships) Account {
	ms := memberships.Clone()
	if ms == nil {
		ms = users.Memberships{}
	}
	return Account{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Memberships: ms,
	}
}

// LoginResponse is returned on a successful sign in or refresh.
type LoginResponse struct {
	Session sessions.Session `json:"session"`
	Account Account          `json:"account"`
}
