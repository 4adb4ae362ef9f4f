package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Query parameter names accepted by GET /api/book.
const (
	ParamAuthor      = "author"
	ParamYear        = "year"
	ParamGenre       = "genre"
	ParamLanguage    = "language"
	ParamPagesFrom   = "pagesFrom"
	ParamPagesTo     = "pagesTo"
	ParamIsAvailable = "isAvailable"
)

// Filter holds the optional list criteria. A nil field imposes no constraint.
// The repository applies them as a conjunction in field order:
// author, year, genre, language, pagesFrom, pagesTo, isAvailable.
type Filter struct {
	Author      *string
	Year        *int
	Genre       *string
	Language    *string
	PagesFrom   *int // inclusive
	PagesTo     *int // inclusive
	IsAvailable *bool
}

// ParseFilter reads a Filter from query parameters. Empty values count as absent.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter
	var errs []error

	f.Author = stringParam(q, ParamAuthor)
	f.Genre = stringParam(q, ParamGenre)
	f.Language = stringParam(q, ParamLanguage)

	var err error
	if f.Year, err = intParam(q, ParamYear); err != nil {
		errs = append(errs, err)
	}
	if f.PagesFrom, err = intParam(q, ParamPagesFrom); err != nil {
		errs = append(errs, err)
	}
	if f.PagesTo, err = intParam(q, ParamPagesTo); err != nil {
		errs = append(errs, err)
	}
	if raw := q.Get(ParamIsAvailable); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be true or false", ParamIsAvailable))
		} else {
			f.IsAvailable = &v
		}
	}

	if len(errs) > 0 {
		return Filter{}, fmt.Errorf("%w: %w", ErrInvalidFilter, errors.Join(errs...))
	}

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Validate rejects an inverted page range.
func (f Filter) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.PagesTo, validation.By(func(interface{}) error {
			if f.PagesFrom != nil && f.PagesTo != nil && *f.PagesFrom > *f.PagesTo {
				return errors.New("must not be less than pagesFrom")
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return nil
}

// IsEmpty reports whether no criteria are set.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Values encodes the filter back into query parameters.
func (f Filter) Values() url.Values {
	q := url.Values{}
	if f.Author != nil {
		q.Set(ParamAuthor, *f.Author)
	}
	if f.Year != nil {
		q.Set(ParamYear, strconv.Itoa(*f.Year))
	}
	if f.Genre != nil {
		q.Set(ParamGenre, *f.Genre)
	}
	if f.Language != nil {
		q.Set(ParamLanguage, *f.Language)
	}
	if f.PagesFrom != nil {
		q.Set(ParamPagesFrom, strconv.Itoa(*f.PagesFrom))
	}
	if f.PagesTo != nil {
		q.Set(ParamPagesTo, strconv.Itoa(*f.PagesTo))
	}
	if f.IsAvailable != nil {
		q.Set(ParamIsAvailable, strconv.FormatBool(*f.IsAvailable))
	}
	return q
}

func stringParam(q url.Values, key string) *string {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func intParam(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}
