package users

import "errors"

var (
	ErrNotFound          = errors.New("account not found")
	ErrUnknownRole       = errors.New("unknown role")
	ErrInvalidMembership = errors.New("invalid membership")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateHandle   = errors.New("login handle already in use")
)
