package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

// ========================================
// BookRequest
// ========================================

func TestBookRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     BookRequest
		wantErr []string
	}{
		{name: "minimal", req: BookRequest{Title: "Dune", Author: "Herbert"}},
		{name: "missing title and author", req: BookRequest{}, wantErr: []string{"title", "author"}},
		{name: "negative pages", req: BookRequest{Title: "T", Author: "A", Pages: -1}, wantErr: []string{"pages"}},
		{name: "year too large", req: BookRequest{Title: "T", Author: "A", Year: 10000}, wantErr: []string{"year"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if len(tc.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs validation.Errors
			require.True(t, errors.As(err, &verrs), "want validation.Errors, got %v", err)
			for _, field := range tc.wantErr {
				assert.Contains(t, verrs, field)
			}
		})
	}
}

func TestBookRequest_ToBook(t *testing.T) {
	b := BookRequest{ID: 9, Title: "Dune", Author: "Herbert", Year: 1965, Image: strPtr(""), Description: strPtr("Spice")}.ToBook()

	assert.Equal(t, int64(9), b.ID)
	assert.True(t, b.IsAvailable, "missing isAvailable defaults to true")
	assert.Nil(t, b.Image, "blank image is stored as NULL")
	require.NotNil(t, b.Description)
	assert.Equal(t, "Spice", *b.Description)

	b = BookRequest{Title: "T", Author: "A", IsAvailable: boolPtr(false)}.ToBook()
	assert.False(t, b.IsAvailable)
}

func TestRequestFromBook_RoundTrip(t *testing.T) {
	in := Book{ID: 3, Title: "T", Author: "A", Year: 2001, Genre: "Sci-Fi", Language: "en", Pages: 300, IsAvailable: false}
	assert.Equal(t, in, RequestFromBook(in).ToBook())
}

func TestBook_JSONKeys(t *testing.T) {
	raw, err := json.Marshal(Book{ID: 1, Title: "Dune", IsAvailable: true})
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"id", "title", "author", "year", "genre", "language", "pages", "description", "image", "isAvailable"} {
		assert.Contains(t, m, key)
	}
	assert.Len(t, (&Book{}).ScanTargets(), len(Columns))
}

// ========================================
// Filter
// ========================================

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"author":      {"Herbert"},
		"year":        {"1965"},
		"genre":       {""},
		"pagesFrom":   {"100"},
		"pagesTo":     {"500"},
		"isAvailable": {"true"},
	}

	f, err := ParseFilter(q)
	require.NoError(t, err)

	assert.Equal(t, "Herbert", *f.Author)
	assert.Equal(t, 1965, *f.Year)
	assert.Nil(t, f.Genre, "empty parameter is absent")
	assert.Nil(t, f.Language)
	assert.Equal(t, 100, *f.PagesFrom)
	assert.Equal(t, 500, *f.PagesTo)
	assert.True(t, *f.IsAvailable)
	assert.False(t, f.IsEmpty())
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestParseFilter_Invalid(t *testing.T) {
	tests := map[string]url.Values{
		"year not int":      {"year": {"nineteen"}},
		"pagesFrom not int": {"pagesFrom": {"x"}},
		"bad bool":          {"isAvailable": {"maybe"}},
		"inverted range":    {"pagesFrom": {"500"}, "pagesTo": {"100"}},
	}

	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFilter(q)
			assert.ErrorIs(t, err, ErrInvalidFilter)
		})
	}
}

func TestFilter_EqualBoundsAreValid(t *testing.T) {
	f := Filter{PagesFrom: intPtr(200), PagesTo: intPtr(200)}
	assert.NoError(t, f.Validate())
}

func TestFilter_ValuesRoundTrip(t *testing.T) {
	in := Filter{
		Author: strPtr("Le Guin"), Year: intPtr(1969), Genre: strPtr("Sci-Fi"), Language: strPtr("en"),
		PagesFrom: intPtr(1), PagesTo: intPtr(999), IsAvailable: boolPtr(false),
	}

	out, err := ParseFilter(in.Values())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// ========================================
// HandleBookError
// ========================================

func TestHandleBookError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: fmt.Errorf("get: %w", ErrBookNotFound), status: http.StatusNotFound},
		{name: "mismatch", err: ErrIDMismatch, status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "conflict", err: ErrUpdateConflict, status: http.StatusConflict, code: "CONFLICT"},
		{name: "save failed", err: fmt.Errorf("%w: disk full", ErrSaveFailed), status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "validation", err: BookRequest{}.Validate(), status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			assert.True(t, HandleBookError(c, tc.err))
			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Contains(t, w.Body.String(), `"success":false`)
				assert.Contains(t, w.Body.String(), `"code":"`+tc.code+`"`)
			} else {
				assert.Empty(t, w.Body.String())
			}
		})
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.False(t, HandleBookError(c, nil))
}
