// Package jobs stores job postings so resumes can be scored against a saved
// description by ID.
package jobs

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("job posting not found")
	ErrInvalidInput = errors.New("invalid job posting")
)

// Posting is a saved job description.
type Posting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRequest is the payload for saving a posting.
type CreateRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=20000"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Issue)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Normalize trims surrounding whitespace before validation.
func (r CreateRequest) Normalize() CreateRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	return r
}

// Validate checks the request and returns a *ValidationError wrapping ErrInvalidInput.
func (r CreateRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: strings.ToLower(fe.Field()),
			Issue: fe.Tag(),
		})
	}
	return out
}
