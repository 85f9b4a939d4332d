package service

import (
	"context"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/user/model"
)

// UserService covers both admin user management (addressed by username) and
// the caller's own profile (addressed by token identity).
type UserService interface {
	// Admin operations
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, req model.ListUsersRequest) ([]*model.User, int, error)
	UpdateUser(ctx context.Context, username string, req model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error

	// Self-profile operations
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.User, error)
}
