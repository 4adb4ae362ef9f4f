// Package testutil holds in-memory reference helpers shared by the catalog tests.
package testutil

import (
	"github.com/samber/lo"

	"weblibrary/internal/domains/book/model"
)

// MatchesFilter evaluates f against one book in memory, with the exact-match
// and inclusive-range semantics the repository expresses in SQL.
func MatchesFilter(f model.Filter, b model.Book) bool {
	switch {
	case f.Author != nil && b.Author != *f.Author:
		return false
	case f.Year != nil && b.Year != *f.Year:
		return false
	case f.Genre != nil && b.Genre != *f.Genre:
		return false
	case f.Language != nil && b.Language != *f.Language:
		return false
	case f.PagesFrom != nil && b.Pages < *f.PagesFrom:
		return false
	case f.PagesTo != nil && b.Pages > *f.PagesTo:
		return false
	case f.IsAvailable != nil && b.IsAvailable != *f.IsAvailable:
		return false
	}
	return true
}

// FilterBooks returns the books matching f, in input order. Never nil.
func FilterBooks(f model.Filter, books []model.Book) []model.Book {
	out := lo.Filter(books, func(b model.Book, _ int) bool {
		return MatchesFilter(f, b)
	})
	if out == nil {
		return []model.Book{}
	}
	return out
}
