package capability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/hifz-auth/auth"
	"github.com/jrsteele09/hifz-auth/sessions"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Backend is the sign in service as seen from the client. *auth.Service
// satisfies it; a remote client over HTTP can too.
type Backend interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*auth.LoginResponse, error)
	Profile(ctx context.Context, accessToken string) (*auth.Account, error)
}

var _ Backend = (*auth.Service)(nil)

// Controller is the single writer of a Cache. Its operations are serialized:
// a sign in started while another operation is running is rejected, the
// others wait their turn.
type Controller struct {
	backend Backend
	store   SessionStore
	cache   *Cache
	sem     *semaphore.Weighted
	logger  zerolog.Logger
	nowFunc func() time.Time
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

func WithSessionStore(store SessionStore) ControllerOption {
	return func(c *Controller) {
		c.store = store
	}
}

func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithNowFunc(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.nowFunc = now
	}
}

func NewController(backend Backend, options ...ControllerOption) (*Controller, error) {
	if backend == nil {
		return nil, errors.New("[NewController] backend is required")
	}
	c := &Controller{
		backend: backend,
		store:   NewMemorySessionStore(),
		cache:   NewCache(),
		sem:     semaphore.NewWeighted(1),
		logger:  zerolog.Nop(),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Cache returns the read side for the rest of the application.
func (c *Controller) Cache() *Cache {
	return c.cache
}

// SignIn runs the sign in pipeline and installs the resulting session,
// revoking any session it replaces. If ctx is done by the time the backend
// answers, the new session is revoked and nothing is written.
func (c *Controller) SignIn(ctx context.Context, req auth.LoginRequest) (*auth.Account, error) {
	if !c.sem.TryAcquire(1) {
		return nil, ErrOperationInProgress
	}
	defer c.sem.Release(1)

	req = req.Normalize()
	resp, err := c.backend.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		c.discard(ctx, resp.Session)
		return nil, err
	}

	if err := c.store.Save(ctx, &resp.Session); err != nil {
		c.discard(ctx, resp.Session)
		return nil, fmt.Errorf("[Controller.SignIn] store.Save: %w", err)
	}
	previous := c.cache.currentSession()
	c.cache.populate(resp.Session, resp.Account, req.TenantID, c.nowFunc())

	// The replaced session must not stay usable
	if previous != nil && previous.RefreshToken != resp.Session.RefreshToken {
		c.discard(ctx, *previous)
	}

	account := resp.Account
	return &account, nil
}

// SignOut clears the cache and the stored session, then revokes the session
// with the backend. The local state is cleared even if revocation fails.
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	session := c.cache.currentSession()
	c.teardown(ctx)

	if session == nil {
		return nil
	}
	if err := c.backend.Logout(ctx, session.AccessToken, session.RefreshToken); err != nil {
		c.logger.Warn().Err(err).Str("account_id", session.AccountID).Msg("failed to revoke session on sign out")
		return fmt.Errorf("[Controller.SignOut] backend.Logout: %w", err)
	}
	return nil
}

// Restore is the startup session check. A stored session that is still
// valid populates the cache; one that has expired is refreshed; one the
// backend no longer accepts is removed.
func (c *Controller) Restore(ctx context.Context) (*auth.Account, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	session, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	account, err := c.backend.Profile(ctx, session.AccessToken)
	if errors.Is(err, auth.ErrSessionInactive) {
		return c.refresh(ctx, *session)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.cache.populate(*session, *account, session.TenantID, c.nowFunc())
	return account, nil
}

// Reload re-reads the account after its credentials or roles changed by
// exchanging the refresh token for a new session.
func (c *Controller) Reload(ctx context.Context) (*auth.Account, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	session := c.cache.currentSession()
	if session == nil {
		return nil, ErrNoSession
	}
	return c.refresh(ctx, *session)
}

// HandleRevoked tears the cache down after the backend reported the session
// as revoked.
func (c *Controller) HandleRevoked(ctx context.Context) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	c.logger.Info().Msg("session revoked by backend")
	c.teardown(ctx)
	return nil
}

// refresh must be called with the semaphore held.
func (c *Controller) refresh(ctx context.Context, session sessions.Session) (*auth.Account, error) {
	resp, err := c.backend.Refresh(ctx, session.RefreshToken)
	if err != nil {
		if auth.KindOf(err) != auth.KindNetworkError {
			c.teardown(ctx)
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		c.discard(ctx, resp.Session)
		return nil, err
	}

	if err := c.store.Save(ctx, &resp.Session); err != nil {
		c.discard(ctx, resp.Session)
		return nil, fmt.Errorf("[Controller.refresh] store.Save: %w", err)
	}
	c.cache.populate(resp.Session, resp.Account, resp.Session.TenantID, c.nowFunc())

	account := resp.Account
	return &account, nil
}

func (c *Controller) teardown(ctx context.Context) {
	c.cache.clear()
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear stored session")
	}
}

// discard revokes a session that was abandoned or replaced.
func (c *Controller) discard(ctx context.Context, session sessions.Session) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.backend.Logout(ctx, session.AccessToken, session.RefreshToken); err != nil {
		c.logger.Warn().Err(err).Str("account_id", session.AccountID).Msg("failed to revoke discarded session")
	}
}
