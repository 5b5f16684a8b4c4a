package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
//
// Create and Update validate the submitted fields first and return a
// *ValidationError, with nothing written, when they are rejected. GetByID,
// Update and Delete return ErrNotFound for an unknown id.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, f Fields) (Book, error)
	Update(ctx context.Context, id int64, f Fields) (Book, error)
	Delete(ctx context.Context, id int64) error
}
