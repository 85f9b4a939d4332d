package service

import (
	"context"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/genre/model"
	"reviewdb-backend/internal/domains/genre/repository"
	"reviewdb-backend/internal/shared/utils"
)

type GenreService interface {
	Create(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error)
	List(ctx context.Context, req model.ListGenresRequest) ([]*model.Genre, int, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) Create(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	g := &model.Genre{
		ID:   uuid.New(),
		Name: req.Name,
		Slug: slug,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *genreService) List(ctx context.Context, req model.ListGenresRequest) ([]*model.Genre, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req.Search, req.Page, req.Limit)
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	return s.repo.Delete(ctx, slug)
}
