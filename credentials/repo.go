package credentials

import (
	"context"
	"time"
)

// Record is the stored password hash for one canonical login handle.
type Record struct {
	LoginHandle  string
	PasswordHash string
	UpdatedAt    time.Time
}

type Store interface {
	GetCredential(ctx context.Context, loginHandle string) (*Record, error)
	SetCredential(ctx context.Context, loginHandle, passwordHash string) error
}
