package book

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a persisted catalog record.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre,omitempty"`
	Year      *int      `json:"year,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields returns the editable values of b in their form representation.
func (b Book) Fields() Fields {
	f := Fields{Title: b.Title, Author: b.Author, Genre: b.Genre}
	if b.Year != nil {
		f.Year = strconv.Itoa(*b.Year)
	}
	return f
}

// Fields holds the user-editable values of a book exactly as submitted.
// Year stays a string so a rejected value can be shown back to the user.
type Fields struct {
	Title  string `form:"title" validate:"notblank,max=255"`
	Author string `form:"author" validate:"notblank,max=255"`
	Genre  string `form:"genre" validate:"max=255"`
	Year   string `form:"year" validate:"omitempty,year"`
}

// Draft is an unsaved book built from rejected input. ID is nil when the
// draft never had an identifier (create) and set when it belongs to an
// existing record (update).
type Draft struct {
	ID *int64
	Fields
}

// FieldError is one (field, message) pair of a validation result.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by the store when submitted fields violate the
// record constraints. Nothing has been persisted when it is returned.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
}

// NotFoundError is the descriptive not-found fault raised by show and update.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Sorry! We couldn't find the book with id %q.", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StatusCode reports the HTTP status the fault boundary should use.
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }
