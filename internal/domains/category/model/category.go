package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"reviewdb-backend/internal/shared/utils"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("category slug already exists")
	ErrNameTaken        = errors.New("category name already exists")
)

// Category groups titles coarsely (one category per title).
type Category struct {
	ID        uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// CreateCategoryRequest - slug is optional and derived from the name when
// absent.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 256),
		),
		validation.Field(&r.Slug, validation.By(func(interface{}) error {
			if r.Slug == "" {
				return nil
			}
			if !utils.ValidSlug(r.Slug) {
				return errors.New("slug must be lowercase letters, digits and hyphens, at most 50 characters")
			}
			return nil
		})),
	)
}

// ListCategoriesRequest - search matches the name, case-insensitively.
type ListCategoriesRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r *ListCategoriesRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	return nil
}
