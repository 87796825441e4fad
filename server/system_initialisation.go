package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/hifz-auth/internal/utils"
	"github.com/jrsteele09/hifz-auth/tenants"
	"github.com/jrsteele09/hifz-auth/users"
)

// InitialiseSystem creates the default center and the super admin account
// when they don't exist yet. A generated admin password is logged once.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	center, err := s.initialiseDefaultCenter(ctx)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap default center: %w", err)
	}

	admin, generatedPassword, err := s.createSuperAdmin(ctx)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap super admin: %w", err)
	}

	if generatedPassword != "" {
		s.logger.Warn().
			Str("center_id", center.ID).
			Str("center_name", center.Name).
			Str("admin_name", admin.DisplayName).
			Str("admin_login", admin.LoginHandle).
			Str("admin_password", generatedPassword).
			Msg("super admin created, change this password after the first sign in")
	}
	return nil
}

func (s *Server) initialiseDefaultCenter(ctx context.Context) (*tenants.Tenant, error) {
	centerID := s.config.GetDefaultCenterID()

	existing, err := s.repos.Tenants.Get(ctx, centerID)
	if err == nil {
		s.logger.Debug().Str("center_id", existing.ID).Msg("default center already exists")
		return existing, nil
	}
	if !errors.Is(err, tenants.ErrNotFound) {
		return nil, fmt.Errorf("[server initialiseDefaultCenter] failed to get center: %w", err)
	}

	center := &tenants.Tenant{
		ID:     centerID,
		Name:   s.config.GetDefaultCenterName(),
		Active: true,
	}
	if err := s.repos.Tenants.Upsert(ctx, center); err != nil {
		return nil, fmt.Errorf("[server initialiseDefaultCenter] failed to create center: %w", err)
	}
	return center, nil
}

// createSuperAdmin returns the admin account and, when it was just created
// with a generated password, that password.
func (s *Server) createSuperAdmin(ctx context.Context) (admin *users.User, generatedPassword string, err error) {
	handle := s.config.GetAdminLoginHandle()

	existing, err := s.repos.Users.GetByLoginHandle(ctx, handle)
	switch {
	case err == nil:
		// Make sure the account still carries the global role
		if err := s.grantSuperAdmin(ctx, existing.ID); err != nil {
			return nil, "", err
		}
		return existing, "", nil
	case !errors.Is(err, users.ErrNotFound):
		return nil, "", fmt.Errorf("[server createSuperAdmin] failed to look up admin: %w", err)
	}

	password := s.config.GetAdminPassword()
	if password == "" {
		random, err := utils.RandomHex(12)
		if err != nil {
			return nil, "", fmt.Errorf("[server createSuperAdmin] failed to generate password: %w", err)
		}
		// Upper, lower and digit so it passes the strength check
		password = "Hifz-" + random + "9"
		generatedPassword = password
	}

	admin = &users.User{
		DisplayName: s.config.GetAdminDisplayName(),
		LoginHandle: handle,
		Active:      true,
	}
	if err := s.verifier.SetPassword(ctx, handle, password); err != nil {
		return nil, "", fmt.Errorf("[server createSuperAdmin] failed to set password: %w", err)
	}
	if err := s.repos.Users.Upsert(ctx, admin); err != nil {
		return nil, "", fmt.Errorf("[server createSuperAdmin] failed to create admin: %w", err)
	}
	if err := s.grantSuperAdmin(ctx, admin.ID); err != nil {
		return nil, "", err
	}
	return admin, generatedPassword, nil
}

func (s *Server) grantSuperAdmin(ctx context.Context, accountID string) error {
	m, err := users.NewMembership(accountID, users.RoleSuperAdmin, "")
	if err != nil {
		return fmt.Errorf("[server grantSuperAdmin] %w", err)
	}
	if err := s.repos.Users.Grant(ctx, m); err != nil {
		return fmt.Errorf("[server grantSuperAdmin] failed to grant role: %w", err)
	}
	return nil
}
