package model

import "strings"

// Book is one row of the catalog (table books).
// ID is assigned by the store and never changes afterwards.
type Book struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Author      string  `json:"author" db:"author"`
	Year        int     `json:"year" db:"year"`
	Genre       string  `json:"genre" db:"genre"`
	Language    string  `json:"language" db:"language"`
	Pages       int     `json:"pages" db:"pages"`
	Description *string `json:"description" db:"description"`
	Image       *string `json:"image" db:"image"`
	IsAvailable bool    `json:"isAvailable" db:"is_available"`
}

// Columns in the order the repository scans them.
var Columns = []string{
	"id", "title", "author", "year", "genre", "language",
	"pages", "description", "image", "is_available",
}

// ScanTargets returns pointers matching Columns.
func (b *Book) ScanTargets() []interface{} {
	return []interface{}{
		&b.ID, &b.Title, &b.Author, &b.Year, &b.Genre, &b.Language,
		&b.Pages, &b.Description, &b.Image, &b.IsAvailable,
	}
}

// FilterOptions lists the distinct values the frontend offers in its filter form.
type FilterOptions struct {
	Authors   []string `json:"authors"`
	Years     []int    `json:"years"`
	Genres    []string `json:"genres"`
	Languages []string `json:"languages"`
}

// optionalText maps "" (what HTML forms send for blank fields) to NULL.
func optionalText(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
