package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"weblibrary/internal/domains/book/model"
	"weblibrary/internal/domains/book/repository"
	"weblibrary/pkg/cache"
)

const (
	filterOptionsKey = "books:filters"
	detailKeyPrefix  = "books:detail:"
	versionKeyPrefix = "books:version:"
)

func detailKey(id int64) string {
	return fmt.Sprintf("%s%d", detailKeyPrefix, id)
}

// versionKey holds a token that every write to the book replaces.
func versionKey(id int64) string {
	return fmt.Sprintf("%s%d", versionKeyPrefix, id)
}

// BookService - Implements ServiceInterface
type BookService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	ttl   time.Duration
}

// NewService - Constructor with DI
func NewService(repo repository.RepositoryInterface, cache cache.Cache, ttl time.Duration) ServiceInterface {
	return &BookService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// ListBooks goes straight to the store; criteria vary too much to cache.
func (s *BookService) ListBooks(ctx context.Context, filter model.Filter) ([]model.Book, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	books, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books error: %w", err)
	}
	return books, nil
}

func (s *BookService) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var cached model.FilterOptions
	if s.cacheGet(ctx, filterOptionsKey, &cached) {
		return &cached, nil
	}

	opts, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("filter options error: %w", err)
	}

	s.cacheSet(ctx, filterOptionsKey, opts)
	return opts, nil
}

func (s *BookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	key := detailKey(id)

	var cached model.Book
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	before := s.version(ctx, id)

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, b)

	// A write that committed while the row was being read replaced the
	// version; the entry just stored may predate it.
	if s.version(ctx, id) != before {
		log.Debug().Int64("book_id", id).Msg("book changed during read, dropping cached detail")
		s.cacheDelete(ctx, key)
	}
	return b, nil
}

// CreateBook validates and stores the book under a fresh id.
// Any store failure is reported as ErrSaveFailed with its cause.
func (s *BookService) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := req.ToBook()
	b.ID = 0

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSaveFailed, err)
	}

	log.Info().Int64("book_id", created.ID).Str("title", created.Title).Msg("book created")
	s.invalidate(ctx, created.ID)
	return created, nil
}

// UpdateBook replaces the book at id. The body id must match before anything is stored.
func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) error {
	if req.ID != id {
		return fmt.Errorf("%w: path %d, body %d", model.ErrIDMismatch, id, req.ID)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, req.ToBook()); err != nil {
		return err
	}

	log.Info().Int64("book_id", id).Msg("book updated")
	s.invalidate(ctx, id)
	return nil
}

// DeleteBooks removes every listed book. Nothing matched means not found.
func (s *BookService) DeleteBooks(ctx context.Context, ids []int64) error {
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("delete books error: %w", err)
	}
	if n == 0 {
		return model.ErrBookNotFound
	}

	log.Info().Int64("deleted", n).Ints64("ids", ids).Msg("books deleted")
	s.invalidate(ctx, ids...)
	return nil
}

// ============================================
// CACHE HELPERS
// ============================================

// cacheGet reports a hit. Cache failures degrade to a miss.
func (s *BookService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if !found {
		log.Debug().Str("key", key).Msg("cache miss")
	}
	return found
}

func (s *BookService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// version returns the current write token for id, "" when absent or unreadable.
func (s *BookService) version(ctx context.Context, id int64) string {
	var v string
	if _, err := s.cache.Get(ctx, versionKey(id), &v); err != nil {
		return ""
	}
	return v
}

func (s *BookService) cacheDelete(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// invalidate bumps the version of every id before dropping the cached entries,
// so a read racing with the write discards what it cached.
func (s *BookService) invalidate(ctx context.Context, ids ...int64) {
	keys := []string{filterOptionsKey}
	for _, id := range ids {
		s.cacheSet(ctx, versionKey(id), uuid.NewString())
		keys = append(keys, detailKey(id))
	}
	s.cacheDelete(ctx, keys...)
}
