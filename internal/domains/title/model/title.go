package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTitleNotFound    = errors.New("title not found")
	ErrUnknownGenre     = errors.New("unknown genre slug")
	ErrUnknownCategory  = errors.New("unknown category slug")
	ErrYearInFuture     = errors.New("year cannot be in the future")
)

// CategoryRef and GenreRef are the denormalized shapes embedded in title
// responses. Slugs double as the reference keys on write.
type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Title is a reviewable catalog entry. Rating is the live average of review
// scores rounded to one decimal place, nil while no reviews exist.
type Title struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Description *string          `json:"description"`
	Category    *CategoryRef     `json:"category"`
	Genres      []GenreRef       `json:"genre"`
	Rating      *decimal.Decimal `json:"rating"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DetailCacheKey is shared with the review and comment services, which
// invalidate the cached detail whenever a write changes the rating.
func DetailCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("title:%s", id.String())
}

// ========================================
// REQUEST DTOs
// ========================================

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genres      []string `json:"genre"`
	Category    *string  `json:"category"`
}

func (r CreateTitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 256),
		),
		validation.Field(&r.Year,
			validation.Required.Error("year is required"),
			validation.Min(1).Error("year must be positive"),
			validation.By(validateYearNotFuture),
		),
	)
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genres      *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

func (r UpdateTitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.When(r.Name != nil, validation.Length(1, 256)),
		),
		validation.Field(&r.Year, validation.By(func(interface{}) error {
			if r.Year == nil {
				return nil
			}
			if *r.Year < 1 {
				return errors.New("year must be positive")
			}
			return validateYearNotFuture(*r.Year)
		})),
	)
}

func validateYearNotFuture(value interface{}) error {
	year, ok := value.(int)
	if !ok {
		return errors.New("year must be an integer")
	}
	if year > time.Now().Year() {
		return ErrYearInFuture
	}
	return nil
}

// ListTitlesRequest - catalog search filters, all optional and combinable.
type ListTitlesRequest struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Year     int    `form:"year"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (r *ListTitlesRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	return nil
}
