package users

import "context"

// Directory looks accounts up by the identifiers a person can type.
type Directory interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByEmail matches the contact email exactly (case-sensitive).
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByLoginHandle is the backend's own account-email index.
	GetByLoginHandle(ctx context.Context, handle string) (*User, error)
	// FindByDisplayName returns every exact match, oldest account first.
	FindByDisplayName(ctx context.Context, name string) ([]*User, error)
}

// MembershipRepo lists the role grants of an account.
type MembershipRepo interface {
	ListByAccount(ctx context.Context, accountID string) (Memberships, error)
}

// UserRepo is the administrative side of the directory.
type UserRepo interface {
	Directory
	MembershipRepo
	Upsert(ctx context.Context, user *User) error
	SetActive(ctx context.Context, id string, active bool) error
	SetLastLogin(ctx context.Context, id string) error
	Grant(ctx context.Context, membership Membership) error
	Revoke(ctx context.Context, membership Membership) error
}
