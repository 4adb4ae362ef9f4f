package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"weblibrary/internal/domains/book/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The server rejected the request or could not be reached
	ExitCommandError = 2 // Bad flags or arguments
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output; keeps JSON on Writer clean
	Verbose   bool
}

// CLIResponse is the JSON envelope for CLI output.
type CLIResponse struct {
	Status string      `json:"status"` // "ok"
	Data   interface{} `json:"data,omitempty"`
}

// Emit writes data as a JSON envelope, or calls text to render it for humans.
func (f *OutputFormatter) Emit(data interface{}, text func(io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// ========================================
// TEXT RENDERING
// ========================================

const (
	rowFormat    = "%-5s %-28s %-20s %-4s %-10s %5s  %s\n"
	titleWidth   = 28
	authorWidth  = 20
	genreWidth   = 10
	detailFormat = "%-13s%s\n"
)

// RenderBookTable writes one line per book, then a page footer when pages > 0.
func RenderBookTable(w io.Writer, books []model.Book, page, pages, total int) {
	if total == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}

	fmt.Fprintf(w, rowFormat, "ID", "TITLE", "AUTHOR", "YEAR", "GENRE", "PAGES", "AVAILABLE")
	for _, b := range books {
		fmt.Fprintf(w, rowFormat,
			strconv.FormatInt(b.ID, 10),
			truncate(b.Title, titleWidth),
			truncate(b.Author, authorWidth),
			strconv.Itoa(b.Year),
			truncate(orDash(b.Genre), genreWidth),
			strconv.Itoa(b.Pages),
			yesNo(b.IsAvailable),
		)
	}
	fmt.Fprintf(w, "Page %d of %d (%d books)\n", page, pages, total)
}

// RenderBook writes every field of one book.
func RenderBook(w io.Writer, b model.Book) {
	fmt.Fprintf(w, detailFormat, "ID:", strconv.FormatInt(b.ID, 10))
	fmt.Fprintf(w, detailFormat, "Title:", b.Title)
	fmt.Fprintf(w, detailFormat, "Author:", b.Author)
	fmt.Fprintf(w, detailFormat, "Year:", strconv.Itoa(b.Year))
	fmt.Fprintf(w, detailFormat, "Genre:", orDash(b.Genre))
	fmt.Fprintf(w, detailFormat, "Language:", orDash(b.Language))
	fmt.Fprintf(w, detailFormat, "Pages:", strconv.Itoa(b.Pages))
	fmt.Fprintf(w, detailFormat, "Available:", yesNo(b.IsAvailable))
	fmt.Fprintf(w, detailFormat, "Description:", orDash(deref(b.Description)))
	fmt.Fprintf(w, detailFormat, "Image:", orDash(deref(b.Image)))
}

// RenderFilterOptions writes the distinct values, one category per line.
func RenderFilterOptions(w io.Writer, opts model.FilterOptions) {
	years := make([]string, len(opts.Years))
	for i, y := range opts.Years {
		years[i] = strconv.Itoa(y)
	}

	fmt.Fprintf(w, "%-11s%s\n", "Authors:", joinOrDash(opts.Authors))
	fmt.Fprintf(w, "%-11s%s\n", "Years:", joinOrDash(years))
	fmt.Fprintf(w, "%-11s%s\n", "Genres:", joinOrDash(opts.Genres))
	fmt.Fprintf(w, "%-11s%s\n", "Languages:", joinOrDash(opts.Languages))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinOrDash(values []string) string {
	return orDash(strings.Join(values, ", "))
}
