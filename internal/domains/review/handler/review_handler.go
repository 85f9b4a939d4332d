package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/review/model"
	"reviewdb-backend/internal/domains/review/service"
	titlehandler "reviewdb-backend/internal/domains/title/handler"
	titlemodel "reviewdb-backend/internal/domains/title/model"
	"reviewdb-backend/internal/shared/middleware"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/logger"
)

type Handler struct {
	service service.ReviewService
}

func NewHandler(service service.ReviewService) *Handler {
	return &Handler{service: service}
}

// ReviewID parses the :review_id route param. Shared with the comment
// routes nested one level deeper.
func ReviewID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("review_id"))
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return uuid.Nil, false
	}
	return id, true
}

// ListReviews - GET /api/v1/titles/:title_id/reviews
func (h *Handler) ListReviews(c *gin.Context) {
	titleID, ok := titlehandler.TitleID(c)
	if !ok {
		return
	}

	req := model.ListReviewsRequest{Page: 1, Limit: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	reviews, total, err := h.service.List(c.Request.Context(), titleID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, reviews, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// CreateReview - POST /api/v1/titles/:title_id/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	titleID, ok := titlehandler.TitleID(c)
	if !ok {
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	rv, err := h.service.Create(c.Request.Context(), middleware.GetSubject(c), titleID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rv)
}

// GetReview - GET /api/v1/titles/:title_id/reviews/:review_id
func (h *Handler) GetReview(c *gin.Context) {
	titleID, ok := titlehandler.TitleID(c)
	if !ok {
		return
	}
	reviewID, ok := ReviewID(c)
	if !ok {
		return
	}

	rv, err := h.service.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rv)
}

// UpdateReview - PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *Handler) UpdateReview(c *gin.Context) {
	titleID, ok := titlehandler.TitleID(c)
	if !ok {
		return
	}
	reviewID, ok := ReviewID(c)
	if !ok {
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	rv, err := h.service.Update(c.Request.Context(), middleware.GetSubject(c), titleID, reviewID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rv)
}

// DeleteReview - DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *Handler) DeleteReview(c *gin.Context) {
	titleID, ok := titlehandler.TitleID(c)
	if !ok {
		return
	}
	reviewID, ok := ReviewID(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), middleware.GetSubject(c), titleID, reviewID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, titlemodel.ErrTitleNotFound):
		response.NotFound(c, "title not found")
	case errors.Is(err, model.ErrReviewNotFound):
		response.NotFound(c, "review not found")
	case errors.Is(err, model.ErrDuplicateReview):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrNotPermitted):
		response.Forbidden(c, err.Error())
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
	default:
		logger.Error("review operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
}
