package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	usermodel "reviewdb-backend/internal/domains/user/model"
)

// SignupRequest - POST /api/v1/auth/signup. Registers a new identity, or
// re-requests a code for an existing one when username AND email both match.
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.By(func(interface{}) error {
			return usermodel.ValidateUsername(r.Username)
		})),
		validation.Field(&r.Email, validation.By(func(interface{}) error {
			return usermodel.ValidateEmail(r.Email)
		})),
	)
}

// SignupResponse echoes the registered identity. Warning is set when the
// account exists but the confirmation mail could not be dispatched.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Warning  string `json:"warning,omitempty"`
}

// TokenRequest - POST /api/v1/auth/token. Exchanges a confirmation code for
// a bearer token.
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("username is required")),
		validation.Field(&r.ConfirmationCode, validation.Required.Error("confirmation_code is required")),
	)
}

type TokenResponse struct {
	Token string `json:"token"`
}
