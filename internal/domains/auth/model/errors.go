package model

import "errors"

var (
	// ErrMismatchedCredentials - the username or the email is already
	// registered, but not as the same account. Resending a code requires an
	// exact match of both.
	ErrMismatchedCredentials = errors.New("username or email already belongs to a different account")

	// ErrInvalidCode - the confirmation code does not match the user's
	// current identity state or has expired.
	ErrInvalidCode = errors.New("invalid or expired confirmation code")
)
