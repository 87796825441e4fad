package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jrsteele09/hifz-auth/credentials"
	"github.com/jrsteele09/hifz-auth/sessions"
	"github.com/jrsteele09/hifz-auth/tenants"
	"github.com/jrsteele09/hifz-auth/token"
	"github.com/jrsteele09/hifz-auth/token/refresh"
	"github.com/jrsteele09/hifz-auth/users"
	"github.com/rs/zerolog"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users   users.UserRepo // Account directory and memberships
	Tenants tenants.Repo   // Centers
}

// Service runs the sign in pipeline: resolve, validate, verify, issue.
// Each stage runs only when the previous one succeeded.
type Service struct {
	repos     Repos
	resolver  *Resolver
	validator *MembershipValidator
	verifier  credentials.Verifier
	tokens    *token.Manager
	timeout   time.Duration
	logger    zerolog.Logger
	nowTime   func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithBackendTimeout bounds every collaborator call
func WithBackendTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, verifier credentials.Verifier, tokens *token.Manager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Tenants == nil {
		return nil, errors.New("[NewService] Tenants repo is required")
	}
	if verifier == nil {
		return nil, errors.New("[NewService] credential verifier is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}

	s := &Service{
		repos:    repos,
		verifier: verifier,
		tokens:   tokens,
		timeout:  defaultBackendTimeout,
		logger:   zerolog.Nop(),
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	s.resolver = NewResolver(repos.Users, repos.Users, s.timeout, s.logger)
	s.validator = NewMembershipValidator(repos.Users, repos.Tenants, s.timeout)
	return s, nil
}

// Login signs an account in. Failures are always one of the sentinel errors
// of this package (or the caller's own context error) so that KindOf can
// classify them.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req = req.Normalize()
	started := s.nowTime()

	resp, err := s.login(ctx, req)
	event := s.logger.Info()
	if err != nil {
		event = s.logger.Warn().Str("kind", string(KindOf(err)))
		if KindOf(err) == KindNetworkError {
			event = event.Err(err)
		}
	} else {
		event = event.Str("account_id", resp.Account.ID)
	}
	event.
		Str("tenant_id", req.TenantID).
		Dur("elapsed", s.nowTime().Sub(started)).
		Msg("sign in attempt")
	return resp, err
}

func (s *Service) login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.resolver.Resolve(ctx, req.Identifier, req.TenantID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.validator.Validate(ctx, user, req.TenantID)
	if err != nil {
		return nil, err
	}

	verification, err := call(ctx, s.timeout, func(ctx context.Context) (*credentials.Verification, error) {
		return s.verifier.Verify(ctx, user.LoginHandle, req.Password)
	})
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, backendError(ctx, "[Service.Login] verifier.Verify", err)
	}

	return s.issue(ctx, user, memberships, req.TenantID, verification)
}

func (s *Service) issue(ctx context.Context, user *users.User, memberships users.Memberships, tenantID string, verification *credentials.Verification) (*LoginResponse, error) {
	if verification == nil || verification.LoginHandle != user.LoginHandle {
		return nil, ErrInvalidCredentials
	}

	// Without a tenant the validator did not load the memberships
	if tenantID == "" {
		var err error
		if memberships, err = s.memberships(ctx, user.ID); err != nil {
			return nil, backendError(ctx, "[Service.issue] users.ListByAccount", err)
		}
	}

	session, err := callOrRelease(ctx, s.timeout, func(ctx context.Context) (*sessions.Session, error) {
		return s.tokens.Issue(ctx, user, memberships, tenantID)
	}, s.revokeLate)
	if err != nil {
		return nil, backendError(ctx, "[Service.issue] tokens.Issue", err)
	}

	// Best effort, a slow write must not hold up the sign in
	if _, err := call(ctx, s.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repos.Users.SetLastLogin(ctx, user.ID)
	}); err != nil {
		s.logger.Warn().Err(err).Str("account_id", user.ID).Msg("failed to record last login")
	}

	return &LoginResponse{
		Session: *session,
		Account: NewAccount(user, memberships),
	}, nil
}

// Logout revokes both tokens of a session.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if _, err := call(ctx, s.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.tokens.Revoke(ctx, accessToken, refreshToken)
	}); err != nil {
		return backendError(ctx, "[Service.Logout] tokens.Revoke", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a new session. The account and its
// memberships are checked again so that a revoked role takes effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	stored, err := call(ctx, s.timeout, func(ctx context.Context) (*refresh.StoredRefreshToken, error) {
		return s.tokens.Exchange(ctx, refreshToken)
	})
	if err != nil {
		if errors.Is(err, refresh.ErrNotFound) || errors.Is(err, refresh.ErrExpired) {
			return nil, ErrSessionInactive
		}
		return nil, backendError(ctx, "[Service.Refresh] tokens.Exchange", err)
	}

	user, err := s.activeAccount(ctx, stored.AccountID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.validator.Validate(ctx, user, stored.TenantID)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, user, memberships, stored.TenantID, &credentials.Verification{
		LoginHandle: user.LoginHandle,
		VerifiedAt:  s.nowTime(),
	})
}

// Profile returns the account and memberships behind an access token.
func (s *Service) Profile(ctx context.Context, accessToken string) (*Account, error) {
	in := s.tokens.Introspect(accessToken)
	if !in.Active {
		return nil, ErrSessionInactive
	}

	user, err := s.activeAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.memberships(ctx, user.ID)
	if err != nil {
		return nil, backendError(ctx, "[Service.Profile] users.ListByAccount", err)
	}

	account := NewAccount(user, memberships)
	return &account, nil
}

// Introspect exposes the token state for transports.
func (s *Service) Introspect(accessToken string) *token.Introspection {
	return s.tokens.Introspect(accessToken)
}

func (s *Service) activeAccount(ctx context.Context, accountID string) (*users.User, error) {
	user, err := call(ctx, s.timeout, func(ctx context.Context) (*users.User, error) {
		return s.repos.Users.GetByID(ctx, accountID)
	})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrSessionInactive
		}
		return nil, backendError(ctx, "[Service.activeAccount] users.GetByID", err)
	}
	if !user.Active {
		return nil, ErrSessionInactive
	}
	return user, nil
}

func (s *Service) memberships(ctx context.Context, accountID string) (users.Memberships, error) {
	return call(ctx, s.timeout, func(ctx context.Context) (users.Memberships, error) {
		return s.repos.Users.ListByAccount(ctx, accountID)
	})
}

// revokeLate revokes a session that was issued after its caller timed out,
// so no refresh token outlives the failed sign in.
func (s *Service) revokeLate(session *sessions.Session) {
	if session == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := s.tokens.Revoke(ctx, session.AccessToken, session.RefreshToken); err != nil {
		s.logger.Warn().Err(err).Str("account_id", session.AccountID).Msg("failed to revoke late session")
		return
	}
	s.logger.Debug().Str("account_id", session.AccountID).Msg("revoked session issued after timeout")
}
