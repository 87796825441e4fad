package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure kinds a sign in can surface.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "NotFound"
	KindAmbiguousIdentifier ErrorKind = "AmbiguousIdentifier"
	KindNoAccountInTenant   ErrorKind = "NoAccountInTenant"
	KindNoMembership        ErrorKind = "NoMembership"
	KindTenantMismatch      ErrorKind = "TenantMismatch"
	KindInvalidCredentials  ErrorKind = "InvalidCredentials"
	KindNetworkError        ErrorKind = "NetworkError"
)

var (
	ErrNotFound            = errors.New("no account matches identifier")
	ErrAmbiguousIdentifier = errors.New("identifier matches more than one account")
	ErrNoAccountInTenant   = errors.New("no matching account belongs to tenant")
	ErrNoMembership        = errors.New("account has no memberships")
	ErrTenantMismatch      = errors.New("account is not a member of tenant")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNetwork             = errors.New("backend unavailable")

	// ErrSessionInactive is reported for expired, revoked or forged tokens.
	ErrSessionInactive = fmt.Errorf("%w: session inactive", ErrInvalidCredentials)
)

var kindErrors = []struct {
	err  error
	kind ErrorKind
}{
	{ErrNotFound, KindNotFound},
	{ErrAmbiguousIdentifier, KindAmbiguousIdentifier},
	{ErrNoAccountInTenant, KindNoAccountInTenant},
	{ErrNoMembership, KindNoMembership},
	{ErrTenantMismatch, KindTenantMismatch},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrNetwork, KindNetworkError},
}

// KindOf classifies err. Anything outside the taxonomy is transient from the
// caller's point of view and reported as a network error.
func KindOf(err error) ErrorKind {
	for _, ke := range kindErrors {
		if errors.Is(err, ke.err) {
			return ke.kind
		}
	}
	return KindNetworkError
}

var messages = map[ErrorKind]string{
	KindNotFound:            "No account matches that name or email.",
	KindAmbiguousIdentifier: "More than one account uses that name. Select your center and try again.",
	KindNoAccountInTenant:   "No account with that name belongs to the selected center.",
	KindNoMembership:        "This account has not been given a role yet. Contact your center administrator.",
	KindTenantMismatch:      "This account is not registered with the selected center.",
	KindInvalidCredentials:  "The sign in details are incorrect.",
	KindNetworkError:        "The service could not be reached. Please try again.",
}

// MessageFor returns the single human-readable message for kind.
func MessageFor(kind ErrorKind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return messages[KindNetworkError]
}

// Failure is the wire form of a failed sign in.
type Failure struct {
	ErrorKind ErrorKind `json:"errorKind"`
	Message   string    `json:"message"`
}

// FailureFrom converts err into its wire form without leaking the cause.
func FailureFrom(err error) Failure {
	kind := KindOf(err)
	return Failure{
		ErrorKind: kind,
		Message:   MessageFor(kind),
	}
}

// backendError wraps a collaborator failure as a network error unless the
// caller itself went away.
func backendError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %s: %w", ErrNetwork, op, err)
}
