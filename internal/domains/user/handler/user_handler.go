package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reviewdb-backend/internal/domains/user/model"
	"reviewdb-backend/internal/domains/user/service"
	"reviewdb-backend/internal/shared/middleware"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/logger"
)

type Handler struct {
	service service.UserService
}

func NewHandler(service service.UserService) *Handler {
	return &Handler{service: service}
}

// handleUserError maps domain errors onto HTTP responses. Returns true when
// the error was handled.
func handleUserError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, model.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, model.ErrUsernameTaken), errors.Is(err, model.ErrEmailTaken):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrInvalidRole), errors.Is(err, model.ErrReservedUsername):
		response.BadRequest(c, err.Error())
	case isValidationError(err):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
	default:
		logger.Error("user operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
	return true
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// ListUsers - GET /api/v1/users
func (h *Handler) ListUsers(c *gin.Context) {
	req := model.ListUsersRequest{
		Search: c.Query("search"),
		Page:   1,
		Limit:  20,
	}
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			req.Page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			req.Limit = l
		}
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), req)
	if handleUserError(c, err) {
		return
	}

	dtos := make([]model.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, u.ToDTO())
	}

	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// CreateUser - POST /api/v1/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), req)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, u.ToDTO())
}

// GetUser - GET /api/v1/users/:username
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.service.GetUser(c.Request.Context(), c.Param("username"))
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, u.ToDTO())
}

// UpdateUser - PATCH /api/v1/users/:username
func (h *Handler) UpdateUser(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	u, err := h.service.UpdateUser(c.Request.Context(), c.Param("username"), req)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, u.ToDTO())
}

// DeleteUser - DELETE /api/v1/users/:username
func (h *Handler) DeleteUser(c *gin.Context) {
	err := h.service.DeleteUser(c.Request.Context(), c.Param("username"))
	if handleUserError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// ========================================
// SELF-PROFILE ENDPOINTS
// ========================================

// GetProfile - GET /api/v1/users/me
func (h *Handler) GetProfile(c *gin.Context) {
	subject := middleware.GetSubject(c)

	u, err := h.service.GetProfile(c.Request.Context(), subject.UserID)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, u.ToDTO())
}

// UpdateProfile - PATCH /api/v1/users/me
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	subject := middleware.GetSubject(c)

	u, err := h.service.UpdateProfile(c.Request.Context(), subject.UserID, req)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, u.ToDTO())
}
