package tenants

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("tenant not found")

type Repo interface {
	Upsert(ctx context.Context, tenant *Tenant) error
	Get(ctx context.Context, tenantID string) (*Tenant, error)
	List(ctx context.Context, offset, limit int) ([]*Tenant, error)
}
