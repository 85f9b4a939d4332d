package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/title/model"
	"reviewdb-backend/internal/domains/title/service"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/logger"
)

type Handler struct {
	service service.TitleService
}

func NewHandler(service service.TitleService) *Handler {
	return &Handler{service: service}
}

// TitleID parses the :title_id route param. Shared with the nested review
// and comment routes, which hang off /titles/:title_id.
func TitleID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("title_id"))
	if err != nil {
		response.BadRequest(c, "invalid title id")
		return uuid.Nil, false
	}
	return id, true
}

// ListTitles - GET /api/v1/titles
func (h *Handler) ListTitles(c *gin.Context) {
	req := model.ListTitlesRequest{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Page:     1,
		Limit:    20,
	}
	if yearStr := c.Query("year"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			req.Year = y
		}
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

	titles, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, titles, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetTitle - GET /api/v1/titles/:title_id
func (h *Handler) GetTitle(c *gin.Context) {
	id, ok := TitleID(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// CreateTitle - POST /api/v1/titles (admin)
func (h *Handler) CreateTitle(c *gin.Context) {
	var req model.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, t)
}

// UpdateTitle - PATCH /api/v1/titles/:title_id (admin)
func (h *Handler) UpdateTitle(c *gin.Context) {
	id, ok := TitleID(c)
	if !ok {
		return
	}

	var req model.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// DeleteTitle - DELETE /api/v1/titles/:title_id (admin)
func (h *Handler) DeleteTitle(c *gin.Context) {
	id, ok := TitleID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, model.ErrTitleNotFound):
		response.NotFound(c, "title not found")
	case errors.Is(err, model.ErrUnknownGenre),
		errors.Is(err, model.ErrUnknownCategory),
		errors.Is(err, model.ErrYearInFuture):
		response.BadRequest(c, err.Error())
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
	default:
		logger.Error("title operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
}
