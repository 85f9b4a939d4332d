package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reviewdb-backend/internal/domains/category/model"
	"reviewdb-backend/internal/domains/category/service"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/logger"
)

type Handler struct {
	service service.CategoryService
}

func NewHandler(service service.CategoryService) *Handler {
	return &Handler{service: service}
}

// ListCategories - GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	req := model.ListCategoriesRequest{
		Search: c.Query("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 20),
	}

	categories, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, categories, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// CreateCategory - POST /api/v1/categories (admin)
func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, category)
}

// DeleteCategory - DELETE /api/v1/categories/:slug (admin)
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, model.ErrCategoryNotFound):
		response.NotFound(c, "category not found")
	case errors.Is(err, model.ErrSlugTaken), errors.Is(err, model.ErrNameTaken):
		response.BadRequest(c, err.Error())
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
	default:
		logger.Error("category operation failed", err)
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
