package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdb-backend/internal/domains/auth/model"
	usermodel "reviewdb-backend/internal/domains/user/model"
	"reviewdb-backend/internal/shared/permission"
	"reviewdb-backend/pkg/confirmation"
	"reviewdb-backend/pkg/jwt"
)

// ========================================
// FAKES
// ========================================

type fakeUserRepo struct {
	users map[uuid.UUID]*usermodel.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*usermodel.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *usermodel.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return usermodel.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return usermodel.ErrEmailTaken
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*usermodel.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, usermodel.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*usermodel.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, usermodel.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, usermodel.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, search string, page, limit int) ([]*usermodel.User, int, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *usermodel.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return usermodel.ErrUserNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, username string) error {
	for id, u := range f.users {
		if u.Username == username {
			delete(f.users, id)
			return nil
		}
	}
	return usermodel.ErrUserNotFound
}

func (f *fakeUserRepo) SetLastCodeWindow(ctx context.Context, id uuid.UUID, window int64) error {
	u, ok := f.users[id]
	if !ok {
		return usermodel.ErrUserNotFound
	}
	u.LastCodeWindow = window
	return nil
}

type fakeSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to   string
	body string
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, body: body})
	return nil
}

// ========================================
// TEST SETUP
// ========================================

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*authService, *fakeUserRepo, *fakeSender, *confirmation.Generator, *jwt.Manager) {
	t.Helper()

	repo := newFakeUserRepo()
	sender := &fakeSender{}
	codes := confirmation.NewGenerator("test-confirmation-secret", 10*time.Minute)
	tokens := jwt.NewManager("test-jwt-secret", time.Hour)

	svc := NewAuthService(repo, codes, tokens, sender, 5*time.Second).(*authService)
	svc.now = func() time.Time { return testTime }

	return svc, repo, sender, codes, tokens
}

// ========================================
// SIGNUP
// ========================================

func TestSignup_NewUser(t *testing.T) {
	svc, repo, sender, codes, _ := newTestService(t)

	resp, err := svc.Signup(context.Background(), model.SignupRequest{
		Username: "alice",
		Email:    "Alice@Example.COM",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Empty(t, resp.Warning)

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, permission.RoleUser, u.Role)
	assert.Equal(t, "alice@example.com", u.Email)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].to)

	expected := codes.Generate(u.Fingerprint(), testTime)
	assert.Contains(t, sender.sent[0].body, expected)
}

func TestSignup_ExistingExactMatchResendsCode(t *testing.T) {
	svc, repo, sender, _, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), model.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), model.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.Len(t, repo.users, 1)
	assert.Len(t, sender.sent, 2)
}

func TestSignup_PartialMatchRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), model.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	// same username, different email
	_, err = svc.Signup(context.Background(), model.SignupRequest{
		Username: "alice",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, model.ErrMismatchedCredentials)

	// different username, same email
	_, err = svc.Signup(context.Background(), model.SignupRequest{
		Username: "bob",
		Email:    "alice@example.com",
	})
	assert.ErrorIs(t, err, model.ErrMismatchedCredentials)
}

func TestSignup_ReservedUsernameRejected(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), model.SignupRequest{
		Username: "me",
		Email:    "me@example.com",
	})
	assert.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestSignup_MailFailureWarnsButSucceeds(t *testing.T) {
	svc, repo, sender, _, _ := newTestService(t)
	sender.err = errors.New("smtp down")

	resp, err := svc.Signup(context.Background(), model.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Warning)
	assert.Len(t, repo.users, 1, "account must be committed despite mail outage")
}

// ========================================
// TOKEN EXCHANGE
// ========================================

func signupAndGetCode(t *testing.T, svc *authService, sender *fakeSender, username, email string) string {
	t.Helper()

	_, err := svc.Signup(context.Background(), model.SignupRequest{
		Username: username,
		Email:    email,
	})
	require.NoError(t, err)
	require.NotEmpty(t, sender.sent)

	body := sender.sent[len(sender.sent)-1].body
	idx := strings.LastIndex(body, ": ")
	require.Greater(t, idx, 0)
	return strings.TrimSpace(body[idx+2:])
}

func TestToken_Exchange(t *testing.T) {
	svc, repo, sender, codes, tokens := newTestService(t)

	code := signupAndGetCode(t, svc, sender, "alice", "alice@example.com")

	resp, err := svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: code,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, codes.WindowIndex(testTime), u.LastCodeWindow)
}

func TestToken_CodeIsSingleUse(t *testing.T) {
	svc, _, sender, _, _ := newTestService(t)

	code := signupAndGetCode(t, svc, sender, "alice", "alice@example.com")

	_, err := svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: code,
	})
	require.NoError(t, err)

	// same code again: the consumed window now participates in the
	// fingerprint, so derivation no longer matches
	_, err = svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: code,
	})
	assert.ErrorIs(t, err, model.ErrInvalidCode)
}

func TestToken_ReissuedCodeInConsumedWindowIsSingleUse(t *testing.T) {
	svc, repo, sender, codes, _ := newTestService(t)

	first := signupAndGetCode(t, svc, sender, "alice", "alice@example.com")
	_, err := svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: first,
	})
	require.NoError(t, err)

	// a fresh signup in the already-consumed window issues a new code
	second := signupAndGetCode(t, svc, sender, "alice", "alice@example.com")
	require.NotEqual(t, first, second)

	_, err = svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: second,
	})
	require.NoError(t, err)

	// consuming it must advance the marker even though the window matched
	// the stored value, otherwise the code would stay replayable
	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, codes.WindowIndex(testTime)+1, u.LastCodeWindow)

	_, err = svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: second,
	})
	assert.ErrorIs(t, err, model.ErrInvalidCode)
}

func TestToken_UnknownUser(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.Token(context.Background(), model.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "whatever",
	})
	assert.ErrorIs(t, err, usermodel.ErrUserNotFound)
}

func TestToken_WrongCode(t *testing.T) {
	svc, _, sender, _, _ := newTestService(t)

	signupAndGetCode(t, svc, sender, "alice", "alice@example.com")

	_, err := svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: "definitely-not-it",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCode)
}

func TestToken_ExpiredCode(t *testing.T) {
	svc, _, sender, _, _ := newTestService(t)

	code := signupAndGetCode(t, svc, sender, "alice", "alice@example.com")

	// two windows later the code is outside the tolerance
	svc.now = func() time.Time { return testTime.Add(20 * time.Minute) }

	_, err := svc.Token(context.Background(), model.TokenRequest{
		Username:         "alice",
		ConfirmationCode: code,
	})
	assert.ErrorIs(t, err, model.ErrInvalidCode)
}
