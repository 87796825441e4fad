package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jrsteele09/hifz-auth/credentials"
	apperrors "github.com/jrsteele09/hifz-auth/internal/errors"
)

var _ credentials.Store = (*CredentialStore)(nil)

// CredentialStore keeps password hashes keyed by canonical login handle.
type CredentialStore struct {
	store *Store
}

func (c *CredentialStore) GetCredential(ctx context.Context, loginHandle string) (*credentials.Record, error) {
	var (
		rec       = credentials.Record{LoginHandle: loginHandle}
		updatedAt int64
	)
	err := c.store.db.QueryRowContext(ctx,
		`SELECT password_hash, updated_at FROM credentials WHERE login_handle = ?`, loginHandle,
	).Scan(&rec.PasswordHash, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, credentials.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[CredentialStore.GetCredential]")
	}
	rec.UpdatedAt = fromUnix(updatedAt)
	return &rec, nil
}

func (c *CredentialStore) SetCredential(ctx context.Context, loginHandle, passwordHash string) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO credentials (login_handle, password_hash, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (login_handle) DO UPDATE SET
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		loginHandle, passwordHash, toUnix(c.store.nowFunc()))
	if err != nil {
		return apperrors.Wrapf(err, "[CredentialStore.SetCredential]")
	}
	return nil
}
