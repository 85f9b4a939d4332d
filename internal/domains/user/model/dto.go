package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"reviewdb-backend/internal/shared/permission"
)

var usernameFormat = regexp.MustCompile(`^[\w.@+-]+$`)

// ValidateUsername is the shared username rule: signup and admin creation
// both use it so "me" can never sneak in through either path.
func ValidateUsername(value string) error {
	return validation.Validate(value,
		validation.Required.Error("username is required"),
		validation.Length(1, 150),
		validation.Match(usernameFormat).Error("username may contain letters, digits and @/./+/-/_ only"),
		validation.By(func(v interface{}) error {
			if v.(string) == ReservedUsername {
				return ErrReservedUsername
			}
			return nil
		}),
	)
}

// ValidateEmail is the shared email rule. Addresses are stored lowercase, so
// mixed-case input is fine; the format check runs on the lowercased form.
func ValidateEmail(value string) error {
	return validation.Validate(strings.ToLower(value),
		validation.Required.Error("email is required"),
		validation.Length(5, 254),
		is.Email.Error("invalid email format"),
	)
}

// ========================================
// ADMIN DTOs
// ========================================

// CreateUserRequest - admin creates an identity directly, optionally with an
// elevated role.
type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      string  `json:"role"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.By(func(interface{}) error {
			return ValidateUsername(r.Username)
		})),
		validation.Field(&r.Email, validation.By(func(interface{}) error {
			return ValidateEmail(r.Email)
		})),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
		validation.Field(&r.Role, validation.By(func(interface{}) error {
			if r.Role == "" {
				return nil
			}
			_, err := permission.ParseRole(r.Role)
			return err
		})),
	)
}

// UpdateUserRequest - admin partial update; may change role.
type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.By(func(interface{}) error {
			if r.Email == nil {
				return nil
			}
			return ValidateEmail(*r.Email)
		})),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
		validation.Field(&r.Role, validation.By(func(interface{}) error {
			if r.Role == nil {
				return nil
			}
			_, err := permission.ParseRole(*r.Role)
			return err
		})),
	)
}

// ListUsersRequest - admin list with search and pagination.
type ListUsersRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListUsersRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	return nil
}

// ========================================
// SELF-PROFILE DTOs
// ========================================

// UpdateProfileRequest - PATCH /users/me. Deliberately has no role field:
// the role is read-only on this path regardless of the caller.
type UpdateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.By(func(interface{}) error {
			if r.Email == nil {
				return nil
			}
			return ValidateEmail(*r.Email)
		})),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
	)
}

// ========================================
// RESPONSE DTOs
// ========================================

// UserDTO - the representation exposed over HTTP.
type UserDTO struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Bio       *string         `json:"bio"`
	Role      permission.Role `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
