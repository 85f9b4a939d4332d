package model

import (
	"time"

	"github.com/google/uuid"

	"reviewdb-backend/internal/shared/permission"
	"reviewdb-backend/pkg/confirmation"
)

// ReservedUsername is claimed by the self-profile endpoint (/users/me) and
// can never be registered.
const ReservedUsername = "me"

// User is an identity record. There is no password: authentication goes
// through the confirmation-code flow.
type User struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"` // stored lowercase
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Bio       *string         `json:"bio"`
	Role      permission.Role `json:"role"`

	// LastCodeWindow records the rotation window of the last confirmation
	// code that was successfully exchanged. It participates in the code
	// fingerprint, which makes a consumed code unusable afterwards.
	LastCodeWindow int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fingerprint is the identity state that seeds confirmation codes. Changing
// any of these fields invalidates outstanding codes.
func (u *User) Fingerprint() confirmation.Fingerprint {
	return confirmation.Fingerprint{
		Username:       u.Username,
		Email:          u.Email,
		Role:           string(u.Role),
		ConsumedWindow: u.LastCodeWindow,
	}
}
