package service

import (
	"context"

	"github.com/google/uuid"

	"reviewdb-backend/internal/domains/category/model"
	"reviewdb-backend/internal/domains/category/repository"
	"reviewdb-backend/internal/shared/utils"
)

type CategoryService interface {
	Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)
	List(ctx context.Context, req model.ListCategoriesRequest) ([]*model.Category, int, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	c := &model.Category{
		ID:   uuid.New(),
		Name: req.Name,
		Slug: slug,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *categoryService) List(ctx context.Context, req model.ListCategoriesRequest) ([]*model.Category, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req.Search, req.Page, req.Limit)
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return s.repo.Delete(ctx, slug)
}
