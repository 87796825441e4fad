package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jrsteele09/hifz-auth/tenants"
	"github.com/jrsteele09/hifz-auth/users"
)

// MembershipValidator decides whether a resolved account may sign in under a
// center. It must run before any password is checked.
type MembershipValidator struct {
	memberships users.MembershipRepo
	tenants     tenants.Repo // optional, enables the inactive center check
	timeout     time.Duration
}

func NewMembershipValidator(memberships users.MembershipRepo, tenantRepo tenants.Repo, timeout time.Duration) *MembershipValidator {
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}
	return &MembershipValidator{
		memberships: memberships,
		tenants:     tenantRepo,
		timeout:     timeout,
	}
}

// Validate returns the account's memberships when it may sign in under
// tenantID. An empty tenantID passes without touching the backend and
// returns nil; center selection happens later.
func (v *MembershipValidator) Validate(ctx context.Context, user *users.User, tenantID string) (users.Memberships, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, nil
	}

	ms, err := call(ctx, v.timeout, func(ctx context.Context) (users.Memberships, error) {
		return v.memberships.ListByAccount(ctx, user.ID)
	})
	if err != nil {
		return nil, backendError(ctx, "[MembershipValidator.Validate] memberships.ListByAccount", err)
	}

	if len(ms) == 0 {
		return nil, ErrNoMembership
	}
	if ms.HasGlobal() {
		return ms, nil
	}
	if !ms.HasTenant(tenantID) {
		return nil, ErrTenantMismatch
	}

	if v.tenants != nil {
		tenant, err := call(ctx, v.timeout, func(ctx context.Context) (*tenants.Tenant, error) {
			return v.tenants.Get(ctx, tenantID)
		})
		if err != nil {
			if errors.Is(err, tenants.ErrNotFound) {
				return nil, ErrTenantMismatch
			}
			return nil, backendError(ctx, "[MembershipValidator.Validate] tenants.Get", err)
		}
		if !tenant.Active {
			return nil, ErrTenantMismatch
		}
	}
	return ms, nil
}
