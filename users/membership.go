package users

import (
	"fmt"
	"time"
)

// Membership grants an account a role, scoped to a tenant unless the role is global.
type Membership struct {
	AccountID string    `json:"accountId"`
	Role      RoleType  `json:"role"`
	TenantID  string    `json:"tenantId,omitempty"` // Empty for global roles
	GrantedAt time.Time `json:"grantedAt,omitempty"`
}

// NewMembership builds a membership, rejecting role/tenant pairings that break scoping rules.
func NewMembership(accountID string, role RoleType, tenantID string) (Membership, error) {
	if accountID == "" {
		return Membership{}, fmt.Errorf("[NewMembership] account id is required")
	}
	if !role.Valid() {
		return Membership{}, fmt.Errorf("[NewMembership] %w: %q", ErrUnknownRole, role)
	}
	if role.IsGlobal() && tenantID != "" {
		return Membership{}, fmt.Errorf("[NewMembership] %w: %s can't be scoped to %s", ErrInvalidMembership, role, tenantID)
	}
	if !role.IsGlobal() && tenantID == "" {
		return Membership{}, fmt.Errorf("[NewMembership] %w: %s requires a tenant", ErrInvalidMembership, role)
	}
	return Membership{
		AccountID: accountID,
		Role:      role,
		TenantID:  tenantID,
	}, nil
}

// IsGlobal reports whether the membership authorizes every tenant
func (m Membership) IsGlobal() bool {
	return m.Role.IsGlobal()
}

// Memberships is the full set of grants held by one account.
type Memberships []Membership

// HasGlobal returns true if any membership carries a global role
func (ms Memberships) HasGlobal() bool {
	for _, m := range ms {
		if m.IsGlobal() {
			return true
		}
	}
	return false
}

// HasRole returns true if any membership carries the role, whatever its tenant
func (ms Memberships) HasRole(role RoleType) bool {
	for _, m := range ms {
		if m.Role == role {
			return true
		}
	}
	return false
}

// HasTenant returns true if a membership is scoped to tenantID
func (ms Memberships) HasTenant(tenantID string) bool {
	if tenantID == "" {
		return false
	}
	for _, m := range ms {
		if !m.IsGlobal() && m.TenantID == tenantID {
			return true
		}
	}
	return false
}

// CanAccessTenant combines the global bypass with tenant scoping.
func (ms Memberships) CanAccessTenant(tenantID string) bool {
	return ms.HasGlobal() || ms.HasTenant(tenantID)
}

// RolesForTenant returns the global roles plus the roles scoped to tenantID.
// With an empty tenantID every role held is returned.
func (ms Memberships) RolesForTenant(tenantID string) []RoleType {
	roles := make([]RoleType, 0, len(ms))
	seen := make(map[RoleType]struct{}, len(ms))
	for _, m := range ms {
		if tenantID != "" && !m.IsGlobal() && m.TenantID != tenantID {
			continue
		}
		if _, ok := seen[m.Role]; ok {
			continue
		}
		seen[m.Role] = struct{}{}
		roles = append(roles, m.Role)
	}
	return roles
}

// TenantIDs lists the distinct tenants the account is scoped to.
func (ms Memberships) TenantIDs() []string {
	ids := make([]string, 0, len(ms))
	seen := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		if m.TenantID == "" {
			continue
		}
		if _, ok := seen[m.TenantID]; ok {
			continue
		}
		seen[m.TenantID] = struct{}{}
		ids = append(ids, m.TenantID)
	}
	return ids
}

// Clone returns a copy that shares no backing array with ms.
func (ms Memberships) Clone() Memberships {
	if ms == nil {
		return nil
	}
	out := make(Memberships, len(ms))
	copy(out, ms)
	return out
}
