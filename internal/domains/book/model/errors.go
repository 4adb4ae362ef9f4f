package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"weblibrary/internal/shared/response"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrInvalidBookID  = errors.New("invalid book id")
	ErrIDMismatch     = errors.New("book id in body does not match id in path")
	ErrInvalidFilter  = errors.New("invalid filter")
	ErrInvalidBody    = errors.New("invalid request body")
	ErrSaveFailed     = errors.New("failed to save book")
	ErrUpdateConflict = errors.New("book was changed concurrently, reload and try again")
)

// bookErrorMap maps domain errors to HTTP responses.
// A zero Title means "status only, no body".
var bookErrorMap = []struct {
	Err    error
	Status int
	Title  string
}{
	{ErrBookNotFound, http.StatusNotFound, ""},
	{ErrInvalidBookID, http.StatusBadRequest, "Invalid book id"},
	{ErrIDMismatch, http.StatusBadRequest, "Id mismatch"},
	{ErrInvalidFilter, http.StatusBadRequest, "Invalid filter"},
	{ErrInvalidBody, http.StatusBadRequest, "Invalid request data"},
	{ErrSaveFailed, http.StatusBadRequest, "Failed to save book"},
	{ErrUpdateConflict, http.StatusConflict, "Update conflict"},
}

// HandleBookError writes the response for err and reports whether it did.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, entry := range bookErrorMap {
		if !errors.Is(err, entry.Err) {
			continue
		}
		if entry.Title == "" {
			response.NoContent(c, entry.Status)
			return true
		}
		switch entry.Status {
		case http.StatusBadRequest:
			response.BadRequest(c, entry.Title, err.Error())
		case http.StatusConflict:
			response.Conflict(c, entry.Title, err.Error())
		default:
			response.ErrorResponse(c, entry.Status, entry.Title, err.Error())
		}
		return true
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.BadRequest(c, "Validation failed", verrs)
		return true
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unhandled book error")
	response.InternalServerError(c, "Internal server error")
	return true
}
