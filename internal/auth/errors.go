package auth

import "errors"

var (
	// ErrNotAuthorized is returned when the acting role lacks the base token
	// required on the relevant management tab.
	ErrNotAuthorized = errors.New("role lacks the required permission")

	// ErrInvalidToken is returned when a permission token does not match the
	// required pattern (lower-case letters and underscores).
	ErrInvalidToken = errors.New("invalid permission token")

	// ErrDuplicateToken is returned when a permission token list contains the
	// same token twice.
	ErrDuplicateToken = errors.New("duplicate permission token")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
)
