package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/hifz-auth/internal/errors"
	"github.com/jrsteele09/hifz-auth/tenants"
)

var _ tenants.Repo = (*TenantRepo)(nil)

type TenantRepo struct {
	store *Store
}

func (r *TenantRepo) Upsert(ctx context.Context, tenant *tenants.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = r.store.nowFunc()
	}

	var createdAt int64
	err := r.store.db.QueryRowContext(ctx, `
		INSERT INTO tenants (id, name, active, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active
		RETURNING created_at`,
		tenant.ID, tenant.Name, boolToInt(tenant.Active), toUnix(tenant.CreatedAt),
	).Scan(&createdAt)
	if err != nil {
		return apperrors.Wrapf(err, "[TenantRepo.Upsert] tenant %s", tenant.ID)
	}
	tenant.CreatedAt = fromUnix(createdAt)
	return nil
}

func scanTenant(row rowScanner) (*tenants.Tenant, error) {
	var (
		t         tenants.Tenant
		active    int
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.Name, &active, &createdAt); err != nil {
		return nil, err
	}
	t.Active = active != 0
	t.CreatedAt = fromUnix(createdAt)
	return &t, nil
}

func (r *TenantRepo) Get(ctx context.Context, tenantID string) (*tenants.Tenant, error) {
	t, err := scanTenant(r.store.db.QueryRowContext(ctx,
		`SELECT id, name, active, created_at FROM tenants WHERE id = ?`, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tenants.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[TenantRepo.Get] tenant %s", tenantID)
	}
	return t, nil
}

// List pages through tenants ordered by id. A limit of zero or less means no limit.
func (r *TenantRepo) List(ctx context.Context, offset, limit int) ([]*tenants.Tenant, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, name, active, created_at FROM tenants
		ORDER BY id
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[TenantRepo.List]")
	}
	defer rows.Close()

	var list []*tenants.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, apperrors.Wrapf(err, "[TenantRepo.List] scan")
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
