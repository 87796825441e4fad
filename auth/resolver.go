package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/jrsteele09/hifz-auth/users"
	"github.com/rs/zerolog"
)

// Resolver maps what a person typed (display name or email) plus an optional
// center to exactly one account. It never picks between name collisions on
// its own.
type Resolver struct {
	directory   users.Directory
	memberships users.MembershipRepo
	timeout     time.Duration
	logger      zerolog.Logger
}

func NewResolver(directory users.Directory, memberships users.MembershipRepo, timeout time.Duration, logger zerolog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}
	return &Resolver{
		directory:   directory,
		memberships: memberships,
		timeout:     timeout,
		logger:      logger,
	}
}

// LooksLikeEmail reports whether identifier has the shape of a bare email address.
func LooksLikeEmail(identifier string) bool {
	if !strings.Contains(identifier, "@") {
		return false
	}
	addr, err := mail.ParseAddress(identifier)
	return err == nil && addr.Name == "" && addr.Address == identifier
}

// Resolve returns the single account identified by identifier, or one of
// ErrNotFound, ErrAmbiguousIdentifier, ErrNoAccountInTenant, ErrNetwork.
func (r *Resolver) Resolve(ctx context.Context, identifier, tenantID string) (*users.User, error) {
	identifier = strings.TrimSpace(identifier)
	tenantID = strings.TrimSpace(tenantID)
	if identifier == "" {
		return nil, ErrNotFound
	}

	if LooksLikeEmail(identifier) {
		return r.resolveEmail(ctx, identifier)
	}
	return r.resolveDisplayName(ctx, identifier, tenantID)
}

func (r *Resolver) resolveEmail(ctx context.Context, email string) (*users.User, error) {
	user, err := call(ctx, r.timeout, func(ctx context.Context) (*users.User, error) {
		return r.directory.GetByEmail(ctx, email)
	})
	if errors.Is(err, users.ErrNotFound) {
		// No profile carries the email, try the backend's own account index
		user, err = call(ctx, r.timeout, func(ctx context.Context) (*users.User, error) {
			return r.directory.GetByLoginHandle(ctx, email)
		})
	}
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, backendError(ctx, "[Resolver.resolveEmail] directory lookup", err)
	}
	if !user.Active {
		return nil, ErrNotFound
	}
	return user, nil
}

func (r *Resolver) resolveDisplayName(ctx context.Context, name, tenantID string) (*users.User, error) {
	found, err := call(ctx, r.timeout, func(ctx context.Context) ([]*users.User, error) {
		return r.directory.FindByDisplayName(ctx, name)
	})
	if err != nil {
		return nil, backendError(ctx, "[Resolver.resolveDisplayName] directory.FindByDisplayName", err)
	}

	candidates := make([]*users.User, 0, len(found))
	for _, u := range found {
		if u.Active && strings.TrimSpace(u.DisplayName) == name {
			candidates = append(candidates, u)
		}
	}

	switch {
	case len(candidates) == 0:
		return nil, ErrNotFound
	case len(candidates) == 1:
		return candidates[0], nil
	case tenantID == "":
		r.logger.Debug().Int("candidates", len(candidates)).Msg("display name collision without tenant hint")
		return nil, ErrAmbiguousIdentifier
	}

	for _, candidate := range candidates {
		ms, err := call(ctx, r.timeout, func(ctx context.Context) (users.Memberships, error) {
			return r.memberships.ListByAccount(ctx, candidate.ID)
		})
		if err != nil {
			return nil, backendError(ctx, "[Resolver.resolveDisplayName] memberships.ListByAccount", err)
		}
		if ms.CanAccessTenant(tenantID) {
			return candidate, nil
		}
	}
	return nil, ErrNoAccountInTenant
}
