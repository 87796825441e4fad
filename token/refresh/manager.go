package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/hifz-auth/internal/utils"
)

const (
	defaultTokenLength = 32 // 32 bytes = 256 bits
	defaultExpiry      = 7 * 24 * time.Hour
)

// Manager handles refresh token creation, validation, and rotation
type Manager struct {
	repo        Repo
	tokenLength int
	expiry      time.Duration
	nowFunc     func() time.Time
}

type ManagerOption func(*Manager)

func WithExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.expiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:        repo,
		tokenLength: defaultTokenLength,
		expiry:      defaultExpiry,
		nowFunc:     time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Create generates a new refresh token and stores it
func (m *Manager) Create(ctx context.Context, accountID, tenantID string) (string, error) {
	tokenStr, err := utils.RandomHex(m.tokenLength)
	if err != nil {
		return "", fmt.Errorf("[Manager.Create] %w", err)
	}

	if err := m.repo.Upsert(ctx, &StoredRefreshToken{
		Token:     tokenStr,
		AccountID: accountID,
		TenantID:  tenantID,
		Iat:       m.nowFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Consume looks a token up and deletes it, so every refresh token is single use.
// The delete is the claim: when two callers race on one token only the one
// whose delete removed it succeeds.
func (m *Manager) Consume(ctx context.Context, token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := m.repo.Delete(ctx, token); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if m.IsExpired(rt) {
		return nil, ErrExpired
	}
	return rt, nil
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(ctx context.Context, token string) error {
	return m.repo.Delete(ctx, token)
}

// RevokeAccount removes every refresh token issued to accountID
func (m *Manager) RevokeAccount(ctx context.Context, accountID string) error {
	return m.repo.DeleteByAccountID(ctx, accountID)
}

// IsExpired checks if a refresh token is older than the configured expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return m.nowFunc().Sub(rt.Iat) > m.expiry
}
