package repository

import (
	"context"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/user/model"
)

// UserRepository is the persistent identity store. Uniqueness of username and
// email is enforced by database constraints; violations surface as the
// domain sentinels.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns a page of users, optionally filtered by a username/email
	// substring, plus the unfiltered-total for pagination.
	List(ctx context.Context, search string, page, limit int) ([]*model.User, int, error)

	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, username string) error

	// SetLastCodeWindow persists the consumed confirmation-code window
	// after a successful token exchange.
	SetLastCodeWindow(ctx context.Context, id uuid.UUID, window int64) error
}
