package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this title")
	ErrNotPermitted    = errors.New("not permitted to modify this review")
)

// Review is one author's verdict on a title. The (author, title) pair is
// unique: a second opinion has to go through PATCH on the first.
type Review struct {
	ID             uuid.UUID `json:"id"`
	TitleID        uuid.UUID `json:"title_id"`
	AuthorID       uuid.UUID `json:"-"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"pub_date"`
	UpdatedAt      time.Time `json:"-"`
}

type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required.Error("text is required")),
		validation.Field(&r.Score,
			validation.Required.Error("score is required"),
			validation.Min(1).Error("score must be between 1 and 10"),
			validation.Max(10).Error("score must be between 1 and 10"),
		),
	)
}

type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.By(func(interface{}) error {
			if r.Text != nil && *r.Text == "" {
				return errors.New("text cannot be empty")
			}
			return nil
		})),
		validation.Field(&r.Score, validation.By(func(interface{}) error {
			if r.Score == nil {
				return nil
			}
			if *r.Score < 1 || *r.Score > 10 {
				return errors.New("score must be between 1 and 10")
			}
			return nil
		})),
	)
}

type ListReviewsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListReviewsRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	return nil
}
