package sqlite

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/jrsteele09/hifz-auth/internal/errors"
	"github.com/jrsteele09/hifz-auth/token/refresh"
)

var _ refresh.Repo = (*RefreshTokenRepo)(nil)

type RefreshTokenRepo struct {
	store *Store
}

func (r *RefreshTokenRepo) Upsert(ctx context.Context, rt *refresh.StoredRefreshToken) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, account_id, tenant_id, issued_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (token) DO UPDATE SET
			account_id = excluded.account_id,
			tenant_id = excluded.tenant_id,
			issued_at = excluded.issued_at`,
		rt.Token, rt.AccountID, rt.TenantID, toUnix(rt.Iat))
	if err != nil {
		return apperrors.Wrapf(err, "[RefreshTokenRepo.Upsert] account %s", rt.AccountID)
	}
	return nil
}

func (r *RefreshTokenRepo) Delete(ctx context.Context, token string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	if err != nil {
		return apperrors.Wrapf(err, "[RefreshTokenRepo.Delete]")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrapf(err, "[RefreshTokenRepo.Delete] rows affected")
	}
	if n == 0 {
		return refresh.ErrNotFound
	}
	return nil
}

func (r *RefreshTokenRepo) Get(ctx context.Context, token string) (*refresh.StoredRefreshToken, error) {
	var (
		rt  = refresh.StoredRefreshToken{Token: token}
		iat int64
	)
	err := r.store.db.QueryRowContext(ctx,
		`SELECT account_id, tenant_id, issued_at FROM refresh_tokens WHERE token = ?`, token,
	).Scan(&rt.AccountID, &rt.TenantID, &iat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, refresh.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[RefreshTokenRepo.Get]")
	}
	rt.Iat = fromUnix(iat)
	return &rt, nil
}

func (r *RefreshTokenRepo) DeleteByAccountID(ctx context.Context, accountID string) error {
	if _, err := r.store.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE account_id = ?`, accountID); err != nil {
		return apperrors.Wrapf(err, "[RefreshTokenRepo.DeleteByAccountID] account %s", accountID)
	}
	return nil
}
