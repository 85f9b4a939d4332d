package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/comment/model"
	"reviewdb-backend/internal/domains/comment/service"
	reviewhandler "reviewdb-backend/internal/domains/review/handler"
	reviewmodel "reviewdb-backend/internal/domains/review/model"
	titlehandler "reviewdb-backend/internal/domains/title/handler"
	titlemodel "reviewdb-backend/internal/domains/title/model"
	"reviewdb-backend/internal/shared/middleware"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/logger"
)

type Handler struct {
	service service.CommentService
}

func NewHandler(service service.CommentService) *Handler {
	return &Handler{service: service}
}

func commentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return uuid.Nil, false
	}
	return id, true
}

// pathIDs resolves the full nesting chain of the comment routes.
func pathIDs(c *gin.Context) (titleID, reviewID uuid.UUID, ok bool) {
	titleID, ok = titlehandler.TitleID(c)
	if !ok {
		return
	}
	reviewID, ok = reviewhandler.ReviewID(c)
	return
}

// ListComments - GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *Handler) ListComments(c *gin.Context) {
	titleID, reviewID, ok := pathIDs(c)
	if !ok {
		return
	}

	req := model.ListCommentsRequest{Page: 1, Limit: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	comments, total, err := h.service.List(c.Request.Context(), titleID, reviewID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, comments, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// CreateComment - POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *Handler) CreateComment(c *gin.Context) {
	titleID, reviewID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	cm, err := h.service.Create(c.Request.Context(), middleware.GetSubject(c), titleID, reviewID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, cm)
}

// GetComment - GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *Handler) GetComment(c *gin.Context) {
	titleID, reviewID, ok := pathIDs(c)
	if !ok {
		return
	}
	id, ok := commentID(c)
	if !ok {
		return
	}

	cm, err := h.service.Get(c.Request.Context(), titleID, reviewID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cm)
}

// UpdateComment - PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *Handler) UpdateComment(c *gin.Context) {
	titleID, reviewID, ok := pathIDs(c)
	if !ok {
		return
	}
	id, ok := commentID(c)
	if !ok {
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request data")
		return
	}

	cm, err := h.service.Update(c.Request.Context(), middleware.GetSubject(c), titleID, reviewID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cm)
}

// DeleteComment - DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *Handler) DeleteComment(c *gin.Context) {
	titleID, reviewID, ok := pathIDs(c)
	if !ok {
		return
	}
	id, ok := commentID(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), middleware.GetSubject(c), titleID, reviewID, id)
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
	case errors.Is(err, reviewmodel.ErrReviewNotFound):
		response.NotFound(c, "review not found")
	case errors.Is(err, model.ErrCommentNotFound):
		response.NotFound(c, "comment not found")
	case errors.Is(err, model.ErrNotPermitted):
		response.Forbidden(c, err.Error())
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
	default:
		logger.Error("comment operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
}
