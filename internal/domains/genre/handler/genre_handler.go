package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reviewdb-backend/internal/domains/genre/model"
	"reviewdb-backend/internal/domains/genre/service"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/logger"
)

type Handler struct {
	service service.GenreService
}

func NewHandler(service service.GenreService) *Handler {
	return &Handler{service: service}
}

// ListGenres - GET /api/v1/genres
func (h *Handler) ListGenres(c *gin.Context) {
	req := model.ListGenresRequest{
		Search: c.Query("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 20),
	}

	genres, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, genres, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// CreateGenre - POST /api/v1/genres (admin)
func (h *Handler) CreateGenre(c *gin.Context) {
	var req model.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	genre, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, genre)
}

// DeleteGenre - DELETE /api/v1/genres/:slug (admin)
func (h *Handler) DeleteGenre(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, model.ErrGenreNotFound):
		response.NotFound(c, "genre not found")
	case errors.Is(err, model.ErrSlugTaken), errors.Is(err, model.ErrNameTaken):
		response.BadRequest(c, err.Error())
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
	default:
		logger.Error("genre operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
