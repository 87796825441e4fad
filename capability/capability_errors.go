package capability

import "errors"

var (
	ErrNoSession           = errors.New("no session installed")
	ErrOperationInProgress = errors.New("another sign in or sign out is in progress")
)
