package testutil

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"weblibrary/internal/domains/book/model"
)

func TestMatchesFilter_InclusiveBounds(t *testing.T) {
	f := model.Filter{PagesFrom: lo.ToPtr(200), PagesTo: lo.ToPtr(200)}

	assert.True(t, MatchesFilter(f, model.Book{Pages: 200}))
	assert.False(t, MatchesFilter(f, model.Book{Pages: 201}))

	onlyTo := model.Filter{PagesTo: lo.ToPtr(100)}
	assert.True(t, MatchesFilter(onlyTo, model.Book{Pages: 0}))
	assert.False(t, MatchesFilter(onlyTo, model.Book{Pages: 101}))
}

func TestMatchesFilter_ExactCase(t *testing.T) {
	f := model.Filter{Author: lo.ToPtr("Herbert")}

	assert.True(t, MatchesFilter(f, model.Book{Author: "Herbert"}))
	assert.False(t, MatchesFilter(f, model.Book{Author: "herbert"}))
	assert.False(t, MatchesFilter(f, model.Book{Author: "Frank Herbert"}))
}

func TestFilterBooks(t *testing.T) {
	books := []model.Book{
		{ID: 1, Author: "Lem", IsAvailable: true},
		{ID: 2, Author: "Lem", IsAvailable: false},
		{ID: 3, Author: "Eco", IsAvailable: true},
	}

	got := FilterBooks(model.Filter{Author: lo.ToPtr("Lem"), IsAvailable: lo.ToPtr(true)}, books)
	assert.Equal(t, []model.Book{books[0]}, got)

	assert.Equal(t, books, FilterBooks(model.Filter{}, books))
	assert.Equal(t, []model.Book{}, FilterBooks(model.Filter{Year: lo.ToPtr(1)}, books))
}
