package model

import "errors"

// Repository-level errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// Validation errors
var (
	ErrReservedUsername = errors.New("username 'me' is reserved")
	ErrInvalidRole      = errors.New("invalid user role")
)
