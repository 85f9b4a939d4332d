package service

import (
	"context"

	"reviewdb-backend/internal/domains/auth/model"
)

// AuthService implements the passwordless signup flow: signup registers an
// identity and emails a confirmation code, token exchanges that code for a
// JWT bearer token.
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.SignupResponse, error)
	Token(ctx context.Context, req model.TokenRequest) (*model.TokenResponse, error)
}
