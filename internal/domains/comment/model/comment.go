package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotPermitted    = errors.New("not permitted to modify this comment")
)

// Comment is a reply to a review.
type Comment struct {
	ID             uuid.UUID `json:"id"`
	ReviewID       uuid.UUID `json:"review_id"`
	AuthorID       uuid.UUID `json:"-"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"pub_date"`
	UpdatedAt      time.Time `json:"-"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required.Error("text is required")),
	)
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

func (r UpdateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.By(func(interface{}) error {
			if r.Text != nil && *r.Text == "" {
				return errors.New("text cannot be empty")
			}
			return nil
		})),
	)
}

type ListCommentsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListCommentsRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	return nil
}
