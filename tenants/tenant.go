package tenants

import "time"

// Tenant is a memorization center. Accounts reach a tenant through scoped memberships.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"` // Inactive centers accept no sign ins
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
