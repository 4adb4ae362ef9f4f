package repository

import (
	"context"

	"weblibrary/internal/domains/book/model"
)

// RepositoryInterface - data access for the books table
type RepositoryInterface interface {
	// List returns the books matching every set criterion, ordered by id.
	List(ctx context.Context, filter model.Filter) ([]model.Book, error)
	// FilterOptions returns the distinct authors, years, genres and languages.
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	// Create stores book under a fresh id and returns the stored row.
	Create(ctx context.Context, book model.Book) (*model.Book, error)
	// Update replaces every field of the row with book.ID.
	Update(ctx context.Context, book model.Book) error
	// DeleteMany removes the rows with the given ids and returns how many went.
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
}
