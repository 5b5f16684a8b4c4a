package book

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ResultKind tags the outcome of a create or update command.
type ResultKind int

const (
	// ResultOK means the record was persisted; CommandResult.Book is set.
	ResultOK ResultKind = iota
	// ResultInvalid means the fields were rejected; Draft and Errors are set.
	ResultInvalid
)

// CommandResult is the tagged outcome of Create and Update. Failures other
// than validation are returned as errors next to it instead.
type CommandResult struct {
	Kind   ResultKind
	Book   Book
	Draft  Draft
	Errors []FieldError
}

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the books matching q.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Book, error) {
	return s.repo.List(ctx, q)
}

// Get returns the book with the given id or a *NotFoundError.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Book{}, &NotFoundError{ID: strconv.FormatInt(id, 10)}
		}
		return Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

// Create persists a new book from f.
func (s *Service) Create(ctx context.Context, f Fields) (CommandResult, error) {
	b, err := s.repo.Create(ctx, f)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return CommandResult{
				Kind:   ResultInvalid,
				Draft:  Draft{Fields: f},
				Errors: verr.Errors,
			}, nil
		}
		return CommandResult{}, fmt.Errorf("create book: %w", err)
	}
	return CommandResult{Kind: ResultOK, Book: b}, nil
}

// Update replaces the editable fields of the book with the given id. An
// unknown id yields a *NotFoundError.
func (s *Service) Update(ctx context.Context, id int64, f Fields) (CommandResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return CommandResult{}, err
	}

	b, err := s.repo.Update(ctx, id, f)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			return CommandResult{
				Kind:   ResultInvalid,
				Draft:  Draft{ID: &id, Fields: f},
				Errors: verr.Errors,
			}, nil
		case errors.Is(err, ErrNotFound):
			// deleted between the lookup and the write
			return CommandResult{}, &NotFoundError{ID: strconv.FormatInt(id, 10)}
		}
		return CommandResult{}, fmt.Errorf("update book %d: %w", id, err)
	}
	return CommandResult{Kind: ResultOK, Book: b}, nil
}

// Delete removes the book with the given id. It returns ErrNotFound, bare,
// when there is no such book.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}
