package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/hifz-auth/internal/errors"
	"github.com/jrsteele09/hifz-auth/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

// UserRepo stores accounts and their memberships.
type UserRepo struct {
	store *Store
}

const accountColumns = `id, display_name, email, login_handle, active, created_at, updated_at, last_login`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	var (
		u         users.User
		email     sql.NullString
		active    int
		createdAt int64
		updatedAt int64
		lastLogin sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.DisplayName, &email, &u.LoginHandle, &active, &createdAt, &updatedAt, &lastLogin); err != nil {
		return nil, err
	}
	u.Email = email.String
	u.Active = active != 0
	u.CreatedAt = fromUnix(createdAt)
	u.UpdatedAt = fromUnix(updatedAt)
	if lastLogin.Valid {
		u.LastLogin = fromUnix(lastLogin.Int64)
	}
	return &u, nil
}

func (r *UserRepo) Upsert(ctx context.Context, user *users.User) error {
	if user.LoginHandle == "" {
		return errors.New("[UserRepo.Upsert] login handle is required")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := r.store.nowFunc()
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	var storedCreatedAt int64
	err := r.store.db.QueryRowContext(ctx, `
		INSERT INTO accounts (id, display_name, email, login_handle, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email,
			login_handle = excluded.login_handle,
			active = excluded.active,
			updated_at = excluded.updated_at
		RETURNING created_at`,
		user.ID, user.DisplayName, nullString(user.Email), user.LoginHandle, boolToInt(user.Active), toUnix(createdAt), toUnix(now),
	).Scan(&storedCreatedAt)
	switch {
	case isUniqueViolation(err, "accounts.email"):
		return users.ErrDuplicateEmail
	case isUniqueViolation(err, "accounts.login_handle"):
		return users.ErrDuplicateHandle
	case err != nil:
		return apperrors.Wrapf(err, "[UserRepo.Upsert] account %s", user.ID)
	}

	user.CreatedAt = fromUnix(storedCreatedAt)
	user.UpdatedAt = now
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, op, where string, arg any) (*users.User, error) {
	u, err := scanUser(r.store.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[UserRepo.%s]", op)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, "GetByID", `id = ?`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if email == "" {
		return nil, users.ErrNotFound
	}
	return r.getOne(ctx, "GetByEmail", `email = ?`, email)
}

func (r *UserRepo) GetByLoginHandle(ctx context.Context, handle string) (*users.User, error) {
	return r.getOne(ctx, "GetByLoginHandle", `login_handle = ?`, handle)
}

func (r *UserRepo) FindByDisplayName(ctx context.Context, name string) ([]*users.User, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE trim(display_name) = ?
		ORDER BY created_at, rowid`, name)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[UserRepo.FindByDisplayName]")
	}
	defer rows.Close()

	matches := make([]*users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Wrapf(err, "[UserRepo.FindByDisplayName] scan")
		}
		matches = append(matches, u)
	}
	return matches, rows.Err()
}

func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, "SetActive", `UPDATE accounts SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), toUnix(r.store.nowFunc()), id)
}

func (r *UserRepo) SetLastLogin(ctx context.Context, id string) error {
	return r.update(ctx, "SetLastLogin", `UPDATE accounts SET last_login = ? WHERE id = ?`,
		toUnix(r.store.nowFunc()), id)
}

func (r *UserRepo) update(ctx context.Context, op, query string, args ...any) error {
	res, err := r.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrapf(err, "[UserRepo.%s]", op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrapf(err, "[UserRepo.%s] rows affected", op)
	}
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepo) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.store.db.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepo) ListByAccount(ctx context.Context, accountID string) (users.Memberships, error) {
	ok, err := r.exists(ctx, accountID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[UserRepo.ListByAccount] account %s", accountID)
	}
	if !ok {
		return nil, users.ErrNotFound
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT role, tenant_id, granted_at FROM memberships
		WHERE account_id = ?
		ORDER BY granted_at, rowid`, accountID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[UserRepo.ListByAccount] account %s", accountID)
	}
	defer rows.Close()

	ms := make(users.Memberships, 0)
	for rows.Next() {
		var (
			role      string
			tenantID  string
			grantedAt int64
		)
		if err := rows.Scan(&role, &tenantID, &grantedAt); err != nil {
			return nil, apperrors.Wrapf(err, "[UserRepo.ListByAccount] scan")
		}
		parsed, err := users.ParseRole(role)
		if err != nil {
			return nil, apperrors.Wrapf(err, "[UserRepo.ListByAccount] account %s", accountID)
		}
		ms = append(ms, users.Membership{
			AccountID: accountID,
			Role:      parsed,
			TenantID:  tenantID,
			GrantedAt: fromUnix(grantedAt),
		})
	}
	return ms, rows.Err()
}

func (r *UserRepo) Grant(ctx context.Context, membership users.Membership) error {
	m, err := users.NewMembership(membership.AccountID, membership.Role, membership.TenantID)
	if err != nil {
		return err
	}
	ok, err := r.exists(ctx, m.AccountID)
	if err != nil {
		return apperrors.Wrapf(err, "[UserRepo.Grant] account %s", m.AccountID)
	}
	if !ok {
		return users.ErrNotFound
	}

	grantedAt := membership.GrantedAt
	if grantedAt.IsZero() {
		grantedAt = r.store.nowFunc()
	}
	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO memberships (account_id, role, tenant_id, granted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id, role, tenant_id) DO NOTHING`,
		m.AccountID, string(m.Role), m.TenantID, toUnix(grantedAt))
	if err != nil {
		return apperrors.Wrapf(err, "[UserRepo.Grant] account %s", m.AccountID)
	}
	return nil
}

func (r *UserRepo) Revoke(ctx context.Context, membership users.Membership) error {
	_, err := r.store.db.ExecContext(ctx, `
		DELETE FROM memberships WHERE account_id = ? AND role = ? AND tenant_id = ?`,
		membership.AccountID, string(membership.Role), membership.TenantID)
	if err != nil {
		return apperrors.Wrapf(err, "[UserRepo.Revoke] account %s", membership.AccountID)
	}
	return nil
}
