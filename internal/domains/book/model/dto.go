package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// REQUEST DTOs
// ========================================

// BookRequest is the body of POST /api/book and PUT /api/book/:id.
// On create the id is ignored; on update it must equal the path id.
type BookRequest struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Year        int     `json:"year"`
	Genre       string  `json:"genre"`
	Language    string  `json:"language"`
	Pages       int     `json:"pages"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsAvailable *bool   `json:"isAvailable"`
}

func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Year, validation.Max(9999).Error("year must be at most 9999")),
		validation.Field(&r.Genre, validation.Length(0, 100)),
		validation.Field(&r.Language, validation.Length(0, 64)),
		validation.Field(&r.Pages, validation.Min(0).Error("pages must not be negative")),
		validation.Field(&r.Image, validation.Length(0, 2048)),
		validation.Field(&r.Description, validation.Length(0, 10000)),
	)
}

// ToBook converts the request into an entity. Missing isAvailable means available.
func (r BookRequest) ToBook() Book {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}

	return Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		Year:        r.Year,
		Genre:       r.Genre,
		Language:    r.Language,
		Pages:       r.Pages,
		Description: optionalText(r.Description),
		Image:       optionalText(r.Image),
		IsAvailable: available,
	}
}

// RequestFromBook is the inverse of ToBook, used by clients re-submitting an edited book.
func RequestFromBook(b Book) BookRequest {
	available := b.IsAvailable
	return BookRequest{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Year:        b.Year,
		Genre:       b.Genre,
		Language:    b.Language,
		Pages:       b.Pages,
		Description: b.Description,
		Image:       b.Image,
		IsAvailable: &available,
	}
}
