package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/user/model"
	"reviewdb-backend/internal/domains/user/repository"
	"reviewdb-backend/internal/shared/permission"
)

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// ========================================
// ADMIN OPERATIONS
// ========================================

func (s *userService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role := permission.RoleUser
	if req.Role != "" {
		parsed, err := permission.ParseRole(req.Role)
		if err != nil {
			return nil, model.ErrInvalidRole
		}
		role = parsed
	}

	u := &model.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *userService) GetUser(ctx context.Context, username string) (*model.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *userService) ListUsers(ctx context.Context, req model.ListUsersRequest) ([]*model.User, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req.Search, req.Page, req.Limit)
}

func (s *userService) UpdateUser(ctx context.Context, username string, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	applyProfilePatch(u, req.Email, req.FirstName, req.LastName, req.Bio)
	if req.Role != nil {
		role, err := permission.ParseRole(*req.Role)
		if err != nil {
			return nil, model.ErrInvalidRole
		}
		u.Role = role
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}

// ========================================
// SELF-PROFILE OPERATIONS
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile patches the caller's own record. The request type carries no
// role field, so the role stays fixed on this path.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyProfilePatch(u, req.Email, req.FirstName, req.LastName, req.Bio)

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func applyProfilePatch(u *model.User, email, firstName, lastName, bio *string) {
	if email != nil {
		u.Email = strings.ToLower(*email)
	}
	if firstName != nil {
		u.FirstName = firstName
	}
	if lastName != nil {
		u.LastName = lastName
	}
	if bio != nil {
		u.Bio = bio
	}
}
