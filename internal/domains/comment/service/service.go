package service

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/comment/model"
	"reviewdb-backend/internal/domains/comment/repository"
	reviewmodel "reviewdb-backend/internal/domains/review/model"
	reviewrepo "reviewdb-backend/internal/domains/review/repository"
	titlemodel "reviewdb-backend/internal/domains/title/model"
	titlerepo "reviewdb-backend/internal/domains/title/repository"
	"reviewdb-backend/internal/shared/permission"
)

type CommentService interface {
	Create(ctx context.Context, subject permission.Subject, titleID, reviewID uuid.UUID, req model.CreateCommentRequest) (*model.Comment, error)
	Get(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*model.Comment, error)
	List(ctx context.Context, titleID, reviewID uuid.UUID, req model.ListCommentsRequest) ([]*model.Comment, int, error)
	Update(ctx context.Context, subject permission.Subject, titleID, reviewID, commentID uuid.UUID, req model.UpdateCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, subject permission.Subject, titleID, reviewID, commentID uuid.UUID) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  reviewrepo.ReviewRepository
	titles   titlerepo.TitleRepository
}

func NewCommentService(
	comments repository.CommentRepository,
	reviews reviewrepo.ReviewRepository,
	titles titlerepo.TitleRepository,
) CommentService {
	return &commentService{
		comments: comments,
		reviews:  reviews,
		titles:   titles,
	}
}

func (s *commentService) Create(ctx context.Context, subject permission.Subject, titleID, reviewID uuid.UUID, req model.CreateCommentRequest) (*model.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireParents(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	cm := &model.Comment{
		ID:             uuid.New(),
		ReviewID:       reviewID,
		AuthorID:       subject.UserID,
		AuthorUsername: subject.Username,
		Text:           req.Text,
	}

	if err := s.comments.Create(ctx, cm); err != nil {
		return nil, err
	}

	return cm, nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*model.Comment, error) {
	if err := s.requireParents(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, reviewID, commentID)
}

func (s *commentService) List(ctx context.Context, titleID, reviewID uuid.UUID, req model.ListCommentsRequest) ([]*model.Comment, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	if err := s.requireParents(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, req.Page, req.Limit)
}

func (s *commentService) Update(ctx context.Context, subject permission.Subject, titleID, reviewID, commentID uuid.UUID, req model.UpdateCommentRequest) (*model.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cm, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !permission.CanActOn(subject, http.MethodPatch, cm.AuthorID) {
		return nil, model.ErrNotPermitted
	}

	if req.Text != nil {
		cm.Text = *req.Text
	}

	if err := s.comments.Update(ctx, cm); err != nil {
		return nil, err
	}

	return cm, nil
}

func (s *commentService) Delete(ctx context.Context, subject permission.Subject, titleID, reviewID, commentID uuid.UUID) error {
	cm, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !permission.CanActOn(subject, http.MethodDelete, cm.AuthorID) {
		return model.ErrNotPermitted
	}

	return s.comments.Delete(ctx, reviewID, commentID)
}

// requireParents walks the nesting chain: the title must exist and the
// review must belong to it, otherwise the route itself is a 404.
func (s *commentService) requireParents(ctx context.Context, titleID, reviewID uuid.UUID) error {
	exists, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return titlemodel.ErrTitleNotFound
	}

	exists, err = s.reviews.Exists(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !exists {
		return reviewmodel.ErrReviewNotFound
	}

	return nil
}
