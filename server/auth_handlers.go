package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/hifz-auth/auth"
	apperrors "github.com/jrsteele09/hifz-auth/internal/errors"
	"github.com/jrsteele09/hifz-auth/internal/utils"
)

const maxBodyBytes = 1 << 16

// refreshRequest carries the refresh token for /refresh and /logout
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// meResponse is the restored session state returned by /me
type meResponse struct {
	Account   *auth.Account `json:"account"`
	TenantID  string        `json:"tenantId,omitempty"`
	Roles     []string      `json:"roles"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// statusFor maps an error kind onto an HTTP status
func statusFor(kind auth.ErrorKind) int {
	switch kind {
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindAmbiguousIdentifier:
		return http.StatusConflict
	case auth.KindNoAccountInTenant, auth.KindNoMembership, auth.KindTenantMismatch:
		return http.StatusForbidden
	case auth.KindInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusServiceUnavailable
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeFailure writes the wire form of a sign in failure
func writeFailure(w http.ResponseWriter, err error) {
	failure := auth.FailureFrom(err)
	writeJSON(w, statusFor(failure.ErrorKind), failure)
}

func writeJSONError(w http.ResponseWriter, errorCode, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}
	return nil
}

// LoginHandler runs the sign in pipeline for a JSON login request
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, "invalid_request", "The request body must be a login request.", http.StatusBadRequest)
			return
		}

		resp, err := s.auth.Login(r.Context(), req)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// LogoutHandler revokes the bearer access token and the refresh token in the body
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The body is optional, without it only the access token is revoked
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err != nil && !apperrors.Is(err, io.EOF) {
			writeJSONError(w, "invalid_request", "The request body must carry a refresh token.", http.StatusBadRequest)
			return
		}

		if err := s.auth.Logout(r.Context(), bearerToken(r), req.RefreshToken); err != nil {
			s.logger.Warn().Err(err).Msg("logout failed")
			writeFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RefreshHandler exchanges a refresh token for a new session
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err != nil || req.RefreshToken == "" {
			writeJSONError(w, "invalid_request", "The request body must carry a refresh token.", http.StatusBadRequest)
			return
		}

		resp, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// MeHandler returns the account behind the bearer token. Clients call it at
// startup to check a stored session.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := IntrospectionFromContext(r.Context())
		raw, _ := r.Context().Value(ContextKeyAccessToken).(string)
		if !ok || raw == "" {
			writeFailure(w, auth.ErrSessionInactive)
			return
		}

		account, err := s.auth.Profile(r.Context(), raw)
		if err != nil {
			writeFailure(w, err)
			return
		}

		roles := in.Roles
		if roles == nil {
			roles = []string{}
		}
		writeJSON(w, http.StatusOK, meResponse{
			Account:   account,
			TenantID:  in.TenantID,
			Roles:     roles,
			ExpiresAt: time.Unix(utils.Value(in.Exp), 0).UTC(),
		})
	}
}

// PreflightHandler answers OPTIONS requests that carry no Origin
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthHandler reports whether the service and its database are reachable
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.health != nil {
			if err := s.health.Ping(r.Context()); err != nil {
				s.logger.Error().Err(err).Msg("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "app": s.config.GetAppName()})
	}
}
