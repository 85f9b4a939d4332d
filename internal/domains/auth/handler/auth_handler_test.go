package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"reviewdb-backend/internal/domains/auth/model"
	usermodel "reviewdb-backend/internal/domains/user/model"
)

type stubAuthService struct {
	signupErr error
	tokenErr  error
}

func (s *stubAuthService) Signup(_ context.Context, req model.SignupRequest) (*model.SignupResponse, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &model.SignupResponse{Username: req.Username, Email: req.Email}, nil
}

func (s *stubAuthService) Token(_ context.Context, _ model.TokenRequest) (*model.TokenResponse, error) {
	if s.tokenErr != nil {
		return nil, s.tokenErr
	}
	return &model.TokenResponse{Token: "token"}, nil
}

func postSignup(t *testing.T, svc *stubAuthService) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/auth/signup", NewHandler(svc).Signup)

	body := strings.NewReader(`{"username": "alice", "email": "alice@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// A signup can lose the insert race to a concurrent request after the
// pre-checks pass. That is the client's conflict, not a server fault.
func TestSignup_UniqueViolationIsBadRequest(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
	}{
		{"username taken", usermodel.ErrUsernameTaken},
		{"email taken", usermodel.ErrEmailTaken},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := postSignup(t, &stubAuthService{signupErr: tc.err})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.err.Error())
		})
	}
}

func TestSignup_OK(t *testing.T) {
	rec := postSignup(t, &stubAuthService{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
}
