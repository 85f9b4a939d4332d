package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/auth/model"
	usermodel "reviewdb-backend/internal/domains/user/model"
	"reviewdb-backend/internal/domains/user/repository"
	"reviewdb-backend/internal/infrastructure/email"
	"reviewdb-backend/internal/shared/permission"
	"reviewdb-backend/pkg/confirmation"
	"reviewdb-backend/pkg/jwt"
	"reviewdb-backend/pkg/logger"
)

const mailWarning = "account registered but the confirmation email could not be sent; request a new code by signing up again"

type authService struct {
	users       repository.UserRepository
	codes       *confirmation.Generator
	tokens      *jwt.Manager
	sender      email.Sender
	sendTimeout time.Duration

	// now is swapped in tests to pin code windows
	now func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	codes *confirmation.Generator,
	tokens *jwt.Manager,
	sender email.Sender,
	sendTimeout time.Duration,
) AuthService {
	return &authService{
		users:       users,
		codes:       codes,
		tokens:      tokens,
		sender:      sender,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// Signup has two paths. A brand-new username+email pair registers an
// identity. An exact match of an existing identity re-issues the code, which
// makes the endpoint safe to retry when the first mail is lost. Any partial
// match is rejected: one of the two values already belongs to someone else.
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (*model.SignupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	emailAddr := strings.ToLower(req.Email)

	u, err := s.users.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if u.Email != emailAddr {
			return nil, model.ErrMismatchedCredentials
		}
		// exact match: resend path, no write needed
	case errors.Is(err, usermodel.ErrUserNotFound):
		if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
			return nil, model.ErrMismatchedCredentials
		} else if !errors.Is(err, usermodel.ErrUserNotFound) {
			return nil, err
		}

		u = &usermodel.User{
			ID:       uuid.New(),
			Username: req.Username,
			Email:    emailAddr,
			Role:     permission.RoleUser,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	resp := &model.SignupResponse{
		Username: u.Username,
		Email:    u.Email,
	}

	code := s.codes.Generate(u.Fingerprint(), s.now())
	if err := s.dispatchCode(ctx, u, code); err != nil {
		// The account state is already committed, so a mail outage must not
		// fail the request. The caller retries signup to get a fresh send.
		logger.Warn("confirmation email dispatch failed",
			map[string]interface{}{"username": u.Username, "error": err.Error()})
		resp.Warning = mailWarning
	}

	return resp, nil
}

func (s *authService) dispatchCode(ctx context.Context, u *usermodel.User, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is: %s\n", u.Username, code)
	return s.sender.Send(ctx, u.Email, "Your confirmation code", body)
}

// Token exchanges a confirmation code for a bearer token. An unknown
// username is a lookup failure, not a code failure, and surfaces as
// ErrUserNotFound. A valid code is consumed by persisting its window, which
// changes the fingerprint and so invalidates the code immediately.
func (s *authService) Token(ctx context.Context, req model.TokenRequest) (*model.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	ok, window := s.codes.Verify(u.Fingerprint(), req.ConfirmationCode, s.now())
	if !ok {
		return nil, model.ErrInvalidCode
	}

	// The marker must move on every exchange or the consumed fingerprint
	// stays the same and the code remains replayable. A code issued in an
	// already-consumed window therefore bumps the marker past the stored
	// value instead of rewriting it.
	consumed := window
	if consumed <= u.LastCodeWindow {
		consumed = u.LastCodeWindow + 1
	}
	if err := s.users.SetLastCodeWindow(ctx, u.ID, consumed); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(u.ID.String(), u.Username, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &model.TokenResponse{Token: token}, nil
}
