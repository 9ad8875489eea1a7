package domain

import (
	"time"

	"github.com/cursos-uc/cursos-app/internal/pkg/validation"
)

// Comment is a rating left by a user on a course. UserName is denormalized and
// display-only; it is whatever the author's client supplied on creation.
type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	CourseID   string    `json:"courseId"`
	Content    *string   `json:"content,omitempty"`
	Rating     int       `json:"rating"`
	Difficulty int       `json:"difficulty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommentInput carries the editable part of a comment. Rating and difficulty
// are mandatory; zero means unset.
type CommentInput struct {
	Content    *string `json:"content,omitempty"`
	Rating     int     `json:"rating"     validate:"required,min=1,max=5"`
	Difficulty int     `json:"difficulty" validate:"required,min=1,max=5"`
}

// NewComment is the payload for creating a comment.
type NewComment struct {
	CourseID string `validate:"required"`
	UserID   string `validate:"required"`
	UserName string
	CommentInput
}

// Validate rejects a missing or out-of-range rating or difficulty.
func (in CommentInput) Validate() error {
	if err := validation.Struct(in); err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}

// Validate checks the identifiers and the editable fields.
func (n NewComment) Validate() error {
	if err := validation.Struct(n); err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}
