package sessions

import "time"

// Session is what the Session Issuer hands back after a successful sign in.
// The client installs it as its active session; lifetime is governed by the
// token manager that minted it.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	AccountID    string    `json:"accountId"`
	TenantID     string    `json:"tenantId,omitempty"` // Center selected at sign in, empty when deferred
	ExpiresAt    time.Time `json:"expiresAt"`          // Access token expiry
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
