package capability

import (
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/hifz-auth/auth"
	"github.com/jrsteele09/hifz-auth/sessions"
	"github.com/jrsteele09/hifz-auth/users"
)

// Cache is the process-wide view of who is signed in and what they may do.
// The zero value is the signed out state. Anyone may read it; only the
// Controller that owns it writes.
type Cache struct {
	lock           sync.RWMutex
	account        *auth.Account
	memberships    users.Memberships
	selectedTenant string
	session        *sessions.Session
	populatedAt    time.Time
}

// Snapshot is a copy of the cache contents at one point in time.
type Snapshot struct {
	Account        *auth.Account
	SelectedTenant string
	Session        *sessions.Session
}

func NewCache() *Cache {
	return &Cache{}
}

// HasRole reports whether any membership carries role.
func (c *Cache) HasRole(role users.RoleType) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.memberships.HasRole(role)
}

// CanAccessTenant reports whether the account holds the global role or a
// membership scoped to tenantID.
func (c *Cache) CanAccessTenant(tenantID string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.memberships.CanAccessTenant(strings.TrimSpace(tenantID))
}

func (c *Cache) IsSignedIn() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.account != nil
}

func (c *Cache) SelectedTenant() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.selectedTenant
}

// Roles lists the roles effective for the selected tenant.
func (c *Cache) Roles() []users.RoleType {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.memberships.RolesForTenant(c.selectedTenant)
}

// PopulatedAt returns when the cache was last written, zero when signed out.
func (c *Cache) PopulatedAt() time.Time {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.populatedAt
}

func (c *Cache) Snapshot() Snapshot {
	c.lock.RLock()
	defer c.lock.RUnlock()

	s := Snapshot{SelectedTenant: c.selectedTenant}
	if c.account != nil {
		a := *c.account
		a.Memberships = c.memberships.Clone()
		s.Account = &a
	}
	if c.session != nil {
		sess := *c.session
		s.Session = &sess
	}
	return s
}

// populate replaces the contents with a freshly issued or restored session.
func (c *Cache) populate(session sessions.Session, account auth.Account, tenantID string, now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()

	account.Memberships = account.Memberships.Clone()
	c.account = &account
	c.memberships = account.Memberships
	c.selectedTenant = strings.TrimSpace(tenantID)
	c.session = &session
	c.populatedAt = now
}

func (c *Cache) clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.account = nil
	c.memberships = nil
	c.selectedTenant = ""
	c.session = nil
	c.populatedAt = time.Time{}
}

func (c *Cache) currentSession() *sessions.Session {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}
