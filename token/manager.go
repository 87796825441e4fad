package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/hifz-auth/internal/utils"
	"github.com/jrsteele09/hifz-auth/sessions"
	"github.com/jrsteele09/hifz-auth/token/refresh"
	"github.com/jrsteele09/hifz-auth/users"
)

const defaultAccessTokenExpiry = 15 * time.Minute

// Introspection is the decoded state of an access token.
// When Active is false the other fields may not be populated.
type Introspection struct {
	Active    bool     `json:"active"`             // Signature valid, not expired, not revoked
	AccountID string   `json:"sub,omitempty"`      // Account the token was issued for
	TenantID  string   `json:"tenant,omitempty"`   // Center selected at sign in
	Roles     []string `json:"roles,omitempty"`    // Roles effective for the tenant
	JTI       string   `json:"jti,omitempty"`      // Unique token id used for revocation
	Exp       *int64   `json:"exp,omitempty"`      // Expiration
	Iat       *int64   `json:"iat,omitempty"`      // Issued at time
	Issuer    string   `json:"iss,omitempty"`      // Issuer of the token
	TokenType string   `json:"token_type,omitempty"`
}

// Manager is the Session Issuer. It mints JWT access tokens paired with opaque
// refresh tokens and can introspect or revoke what it issued.
type Manager struct {
	signer            Signer
	refresh           *refresh.Manager
	revokedCache      RevokedTokenCache
	issuer            string
	accessTokenExpiry time.Duration
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithRevokedTokenCache(cache RevokedTokenCache) ManagerOption {
	return func(m *Manager) {
		m.revokedCache = cache
	}
}

func New(signer Signer, refreshManager *refresh.Manager, options ...ManagerOption) (*Manager, error) {
	if signer == nil {
		return nil, errors.New("[token.New] signer is required")
	}
	if refreshManager == nil {
		return nil, errors.New("[token.New] refresh manager is required")
	}
	m := &Manager{
		signer:            signer,
		refresh:           refreshManager,
		issuer:            "hifz-auth",
		accessTokenExpiry: defaultAccessTokenExpiry,
		nowFunc:           time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.revokedCache == nil {
		m.revokedCache = NewInMemoryRevokedTokenCache(m.nowFunc)
	}
	return m, nil
}

// Issue mints a session for user. tenantID may be empty when center selection is deferred.
func (m *Manager) Issue(ctx context.Context, user *users.User, memberships users.Memberships, tenantID string) (*sessions.Session, error) {
	if user == nil || user.ID == "" {
		return nil, errors.New("[Manager.Issue] user is required")
	}

	now := m.nowFunc()
	expiresAt := now.Add(m.accessTokenExpiry)

	roles := make([]string, 0)
	for _, r := range memberships.RolesForTenant(tenantID) {
		roles = append(roles, string(r))
	}

	claims := jwt.MapClaims{
		"iss":        m.issuer,                  // The issuer of the token
		"sub":        user.ID,                   // The account the token represents
		"tenant":     tenantID,                  // Selected center, empty when deferred
		"roles":      roles,                     // Roles effective for the selected center
		"iat":        now.Unix(),                // Issued At
		"exp":        expiresAt.Unix(),          // Expiry
		"jti":        uuid.New().String(),       // Unique token ID for revocation
		"token_type": "access",
	}

	accessToken, err := m.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("[Manager.Issue] sign: %w", err)
	}

	refreshToken, err := m.refresh.Create(ctx, user.ID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("[Manager.Issue] refresh.Create: %w", err)
	}

	return &sessions.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccountID:    user.ID,
		TenantID:     tenantID,
		ExpiresAt:    time.Unix(expiresAt.Unix(), 0),
	}, nil
}

// Introspect validates rawToken. Invalid, expired and revoked tokens are
// reported as inactive rather than as errors.
func (m *Manager) Introspect(rawToken string) *Introspection {
	if strings.TrimSpace(rawToken) == "" {
		return &Introspection{Active: false}
	}

	parsed, err := jwt.ParseWithClaims(rawToken, jwt.MapClaims{}, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return &Introspection{Active: false}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return &Introspection{Active: false}
	}

	sub, _ := claims["sub"].(string)
	tenantClaim, _ := claims["tenant"].(string)
	jti, _ := claims["jti"].(string)
	tokenType, _ := claims["token_type"].(string)

	var roles []string
	if claimRoles, ok := claims["roles"].([]any); ok {
		roles = utils.ToStringSlice(claimRoles)
	}

	result := &Introspection{
		Active:    sub != "",
		AccountID: sub,
		TenantID:  tenantClaim,
		Roles:     roles,
		JTI:       jti,
		Issuer:    m.issuer,
		TokenType: tokenType,
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.Exp = utils.Ptr(exp.Unix())
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.Iat = utils.Ptr(iat.Unix())
	}

	if jti != "" && m.revokedCache.IsRevoked(jti) {
		result.Active = false
	}
	return result
}

// Exchange consumes a refresh token. The caller issues the replacement session
// once it has re-checked the account.
func (m *Manager) Exchange(ctx context.Context, refreshToken string) (*refresh.StoredRefreshToken, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, refresh.ErrNotFound
	}
	return m.refresh.Consume(ctx, refreshToken)
}

// Revoke invalidates both halves of a session. Either token may be empty.
func (m *Manager) Revoke(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		if in := m.Introspect(accessToken); in.JTI != "" {
			exp := m.nowFunc().Add(m.accessTokenExpiry)
			if in.Exp != nil {
				exp = time.Unix(*in.Exp, 0)
			}
			if err := m.revokedCache.Add(in.JTI, exp); err != nil {
				return fmt.Errorf("[Manager.Revoke] revokedCache.Add: %w", err)
			}
		}
	}
	if refreshToken != "" {
		if err := m.refresh.Delete(ctx, refreshToken); err != nil && !errors.Is(err, refresh.ErrNotFound) {
			return fmt.Errorf("[Manager.Revoke] refresh.Delete: %w", err)
		}
	}
	return nil
}

// RevokeAccount drops every refresh token of an account, e.g. after deactivation.
func (m *Manager) RevokeAccount(ctx context.Context, accountID string) error {
	return m.refresh.RevokeAccount(ctx, accountID)
}

// CleanupRevokedTokens removes expired tokens from the revocation cache
func (m *Manager) CleanupRevokedTokens() {
	m.revokedCache.Cleanup()
}
