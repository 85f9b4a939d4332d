package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/review/model"
	"reviewdb-backend/internal/domains/review/repository"
	titlemodel "reviewdb-backend/internal/domains/title/model"
	titlerepo "reviewdb-backend/internal/domains/title/repository"
	"reviewdb-backend/internal/shared/permission"
	"reviewdb-backend/pkg/cache"
)

type ReviewService interface {
	Create(ctx context.Context, subject permission.Subject, titleID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error)
	Get(ctx context.Context, titleID, reviewID uuid.UUID) (*model.Review, error)
	List(ctx context.Context, titleID uuid.UUID, req model.ListReviewsRequest) ([]*model.Review, int, error)
	Update(ctx context.Context, subject permission.Subject, titleID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, subject permission.Subject, titleID, reviewID uuid.UUID) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  titlerepo.TitleRepository
	cache   cache.Cache
}

func NewReviewService(
	reviews repository.ReviewRepository,
	titles titlerepo.TitleRepository,
	cache cache.Cache,
) ReviewService {
	return &reviewService{
		reviews: reviews,
		titles:  titles,
		cache:   cache,
	}
}

func (s *reviewService) Create(ctx context.Context, subject permission.Subject, titleID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	// friendly pre-check; the unique index still guards the race
	if _, err := s.reviews.GetByAuthorAndTitle(ctx, subject.UserID, titleID); err == nil {
		return nil, model.ErrDuplicateReview
	} else if !errors.Is(err, model.ErrReviewNotFound) {
		return nil, err
	}

	rv := &model.Review{
		ID:             uuid.New(),
		TitleID:        titleID,
		AuthorID:       subject.UserID,
		AuthorUsername: subject.Username,
		Text:           req.Text,
		Score:          req.Score,
	}

	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.invalidateTitle(ctx, titleID)

	return rv, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID uuid.UUID) (*model.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, titleID, reviewID)
}

func (s *reviewService) List(ctx context.Context, titleID uuid.UUID, req model.ListReviewsRequest) ([]*model.Review, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, req.Page, req.Limit)
}

func (s *reviewService) Update(ctx context.Context, subject permission.Subject, titleID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rv, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !permission.CanActOn(subject, http.MethodPatch, rv.AuthorID) {
		return nil, model.ErrNotPermitted
	}

	if req.Text != nil {
		rv.Text = *req.Text
	}
	if req.Score != nil {
		rv.Score = *req.Score
	}

	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}

	s.invalidateTitle(ctx, titleID)

	return rv, nil
}

func (s *reviewService) Delete(ctx context.Context, subject permission.Subject, titleID, reviewID uuid.UUID) error {
	rv, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !permission.CanActOn(subject, http.MethodDelete, rv.AuthorID) {
		return model.ErrNotPermitted
	}

	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		return err
	}

	s.invalidateTitle(ctx, titleID)

	return nil
}

// requireTitle turns a missing parent title into a 404 before any review
// lookup happens.
func (s *reviewService) requireTitle(ctx context.Context, titleID uuid.UUID) error {
	exists, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return titlemodel.ErrTitleNotFound
	}
	return nil
}

// invalidateTitle drops the cached title detail; the rating embedded there
// is stale after any review write.
func (s *reviewService) invalidateTitle(ctx context.Context, titleID uuid.UUID) {
	_ = s.cache.Delete(ctx, titlemodel.DetailCacheKey(titleID))
}
