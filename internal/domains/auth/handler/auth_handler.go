package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reviewdb-backend/internal/domains/auth/model"
	"reviewdb-backend/internal/domains/auth/service"
	usermodel "reviewdb-backend/internal/domains/user/model"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/logger"
)

type Handler struct {
	service service.AuthService
}

func NewHandler(service service.AuthService) *Handler {
	return &Handler{service: service}
}

// Signup - POST /api/v1/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Token - POST /api/v1/auth/token
func (h *Handler) Token(c *gin.Context) {
	var req model.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	resp, err := h.service.Token(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	// Unknown username on token exchange is a lookup miss, not a bad code.
	case errors.Is(err, usermodel.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, model.ErrInvalidCode):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrMismatchedCredentials):
		response.BadRequest(c, err.Error())
	case errors.Is(err, usermodel.ErrReservedUsername):
		response.BadRequest(c, err.Error())
	// Insert race past the signup pre-checks surfaces as a unique violation.
	case errors.Is(err, usermodel.ErrUsernameTaken), errors.Is(err, usermodel.ErrEmailTaken):
		response.BadRequest(c, err.Error())
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
	default:
		logger.Error("auth operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
}
