package service

import (
	"context"

	"github.com/google/uuid"

	categoryrepo "reviewdb-backend/internal/domains/category/repository"
	genrerepo "reviewdb-backend/internal/domains/genre/repository"
	"reviewdb-backend/internal/domains/title/model"
	"reviewdb-backend/internal/domains/title/repository"
)

type TitleService interface {
	Create(ctx context.Context, req model.CreateTitleRequest) (*model.Title, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Title, error)
	List(ctx context.Context, req model.ListTitlesRequest) ([]*model.Title, int, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateTitleRequest) (*model.Title, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleService struct {
	titles     repository.TitleRepository
	genres     genrerepo.GenreRepository
	categories categoryrepo.CategoryRepository
}

func NewTitleService(
	titles repository.TitleRepository,
	genres genrerepo.GenreRepository,
	categories categoryrepo.CategoryRepository,
) TitleService {
	return &titleService{
		titles:     titles,
		genres:     genres,
		categories: categories,
	}
}

func (s *titleService) Create(ctx context.Context, req model.CreateTitleRequest) (*model.Title, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	genreIDs, err := s.resolveGenres(ctx, req.Genres)
	if err != nil {
		return nil, err
	}

	var categoryID *uuid.UUID
	if req.Category != nil && *req.Category != "" {
		id, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		categoryID = &id
	}

	t := &model.Title{
		ID:          uuid.New(),
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if err := s.titles.Create(ctx, t, genreIDs, categoryID); err != nil {
		return nil, err
	}

	// re-read for the denormalized category and genre refs
	return s.titles.GetByID(ctx, t.ID)
}

func (s *titleService) Get(ctx context.Context, id uuid.UUID) (*model.Title, error) {
	return s.titles.GetByID(ctx, id)
}

func (s *titleService) List(ctx context.Context, req model.ListTitlesRequest) ([]*model.Title, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	return s.titles.List(ctx, req)
}

func (s *titleService) Update(ctx context.Context, id uuid.UUID, req model.UpdateTitleRequest) (*model.Title, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Year != nil {
		current.Year = *req.Year
	}
	if req.Description != nil {
		current.Description = req.Description
	}

	var genreIDs *[]uuid.UUID
	if req.Genres != nil {
		ids, err := s.resolveGenres(ctx, *req.Genres)
		if err != nil {
			return nil, err
		}
		genreIDs = &ids
	}

	var categoryID *uuid.UUID
	clearCategory := false
	if req.Category != nil {
		if *req.Category == "" {
			clearCategory = true
		} else {
			id, err := s.resolveCategory(ctx, *req.Category)
			if err != nil {
				return nil, err
			}
			categoryID = &id
		}
	}

	if err := s.titles.Update(ctx, current, genreIDs, categoryID, clearCategory); err != nil {
		return nil, err
	}

	return s.titles.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.titles.Delete(ctx, id)
}

// resolveGenres maps slugs to ids and rejects the request when any slug is
// unknown, so a typo never silently drops a genre.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.genres.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]uuid.UUID, len(genres))
	for _, g := range genres {
		bySlug[g.Slug] = g.ID
	}

	ids := make([]uuid.UUID, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := bySlug[slug]
		if !ok {
			return nil, model.ErrUnknownGenre
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (uuid.UUID, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return uuid.Nil, model.ErrUnknownCategory
	}
	return c.ID, nil
}
