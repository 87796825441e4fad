package credentials

import "errors"

var (
	// ErrInvalidCredentials never says whether the handle or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("credential not found")
	ErrWeakPassword       = errors.New("password too weak")
)
