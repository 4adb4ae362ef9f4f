package service

import (
	"context"

	"weblibrary/internal/domains/book/model"
)

// ServiceInterface - business operations on the catalog
type ServiceInterface interface {
	ListBooks(ctx context.Context, filter model.Filter) ([]model.Book, error)
	GetFilterOptions(ctx context.Context) (*model.FilterOptions, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) error
	DeleteBooks(ctx context.Context, ids []int64) error
}
