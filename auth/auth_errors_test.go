package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jrsteele09/hifz-auth/auth"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want auth.ErrorKind
	}{
		{"not found", auth.ErrNotFound, auth.KindNotFound},
		{"ambiguous", auth.ErrAmbiguousIdentifier, auth.KindAmbiguousIdentifier},
		{"no account in tenant", auth.ErrNoAccountInTenant, auth.KindNoAccountInTenant},
		{"no membership", auth.ErrNoMembership, auth.KindNoMembership},
		{"tenant mismatch", auth.ErrTenantMismatch, auth.KindTenantMismatch},
		{"invalid credentials", auth.ErrInvalidCredentials, auth.KindInvalidCredentials},
		{"inactive session", auth.ErrSessionInactive, auth.KindInvalidCredentials},
		{"wrapped network", fmt.Errorf("%w: lookup: %w", auth.ErrNetwork, context.DeadlineExceeded), auth.KindNetworkError},
		{"unclassified", errors.New("socket closed"), auth.KindNetworkError},
		{"cancelled", context.Canceled, auth.KindNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, auth.KindOf(tt.err))
		})
	}
}

func TestFailureFrom(t *testing.T) {
	seen := map[string]auth.ErrorKind{}
	kinds := []auth.ErrorKind{
		auth.KindNotFound,
		auth.KindAmbiguousIdentifier,
		auth.KindNoAccountInTenant,
		auth.KindNoMembership,
		auth.KindTenantMismatch,
		auth.KindInvalidCredentials,
		auth.KindNetworkError,
	}
	for _, kind := range kinds {
		msg := auth.MessageFor(kind)
		require.NotEmpty(t, msg)
		_, dup := seen[msg]
		require.False(t, dup, "message for %s is shared", kind)
		seen[msg] = kind
	}

	f := auth.FailureFrom(fmt.Errorf("%w: dial tcp 10.0.0.3:5432", auth.ErrNetwork))
	require.Equal(t, auth.KindNetworkError, f.ErrorKind)
	require.NotContains(t, f.Message, "10.0.0.3")

	require.Equal(t, auth.MessageFor(auth.KindNetworkError), auth.MessageFor("Unknown"))
}

func TestLooksLikeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"aisha@example.com", true},
		{"a.b+c@center.org", true},
		{"Ahmed", false},
		{"Ahmed Ali", false},
		{"@", false},
		{"ahmed@", false},
		{"Ahmed <ahmed@example.com>", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, auth.LooksLikeEmail(tt.in))
		})
	}
}
