package refresh

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("refresh token not found")
	ErrExpired  = errors.New("refresh token expired")
)

// StoredRefreshToken represents the server-side storage of refresh token metadata.
// The client only receives the Token field (a random string). All other fields are
// server-side metadata used when the token is exchanged for a new session.
type StoredRefreshToken struct {
	Token     string    // The actual random token string (sent to client)
	AccountID string    // Account the session was issued for
	TenantID  string    // Center selected at sign in, empty when deferred
	Iat       time.Time // Issued at time
}

// Repo manages server-side storage of refresh token metadata, keyed by the token string.
type Repo interface {
	Upsert(ctx context.Context, refreshToken *StoredRefreshToken) error
	Delete(ctx context.Context, token string) error // ErrNotFound when nothing was removed
	Get(ctx context.Context, token string) (*StoredRefreshToken, error)
	DeleteByAccountID(ctx context.Context, accountID string) error
}
