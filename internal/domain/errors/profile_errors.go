package errors

import "errors"

var (
	// ErrProfileNotFound indicates that no profile row exists for the user id
	ErrProfileNotFound = errors.New("profile not found")

	// ErrTierNotFound indicates that the requested pricing tier does not exist
	ErrTierNotFound = errors.New("pricing tier not found")
)
