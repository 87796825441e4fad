package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/jrsteele09/hifz-auth/auth"
	"github.com/jrsteele09/hifz-auth/token"
	"github.com/jrsteele09/hifz-auth/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyIntrospection stores the validated access token
	ContextKeyIntrospection ContextKey = "introspection"
	// ContextKeyAccessToken stores the raw bearer token
	ContextKeyAccessToken ContextKey = "access_token"
)

// bearerToken returns the token of an "Authorization: Bearer" header, or ""
func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IntrospectionFromContext returns the token state put there by RequireAuth
func IntrospectionFromContext(ctx context.Context) (*token.Introspection, bool) {
	in, ok := ctx.Value(ContextKeyIntrospection).(*token.Introspection)
	return in, ok
}

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="hifz"`)
				writeFailure(w, auth.ErrSessionInactive)
				return
			}

			in := s.auth.Introspect(raw)
			if !in.Active || in.TokenType != "access" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="hifz", error="invalid_token"`)
				writeFailure(w, auth.ErrSessionInactive)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIntrospection, in)
			ctx = context.WithValue(ctx, ContextKeyAccessToken, raw)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole is middleware that checks the token carries one of roles.
// It must be chained after RequireAuth.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			in, ok := IntrospectionFromContext(r.Context())
			if !ok {
				writeFailure(w, auth.ErrSessionInactive)
				return
			}
			for _, role := range roles {
				if slices.Contains(in.Roles, string(role)) {
					next(w, r)
					return
				}
			}
			writeJSONError(w, "forbidden", "This account may not use this page.", http.StatusForbidden)
		}
	}
}
