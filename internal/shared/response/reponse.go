package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes the bare resource. The catalog API returns resources unwrapped;
// only failures use the envelope.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// NoContent writes a status with an empty body (204, and 404 for missing books).
func NoContent(c *gin.Context, statusCode int) {
	c.Status(statusCode)
	c.Writer.WriteHeaderNow()
}

// ErrorResponse writes the error envelope. details may be a string, an error, or any JSON value.
func ErrorResponse(c *gin.Context, statusCode int, message string, details interface{}) {
	if err, ok := details.(error); ok {
		details = err.Error()
	}
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    codeFor(statusCode),
			Message: message,
			Details: details,
		},
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, message, details)
}

func Conflict(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusConflict, message, details)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message, nil)
}

// codeFor turns 409 into "CONFLICT", 400 into "BAD_REQUEST" and so on.
func codeFor(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
