package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestError_Envelope(t *testing.T) {
	c, w := newContext()

	ErrorResponse(c, http.StatusConflict, "Update conflict", errors.New("row changed"))

	assert.Equal(t, http.StatusConflict, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, "Update conflict", body.Error.Message)
	assert.Equal(t, "row changed", body.Error.Details)
}

func TestSuccess_Unwrapped(t *testing.T) {
	c, w := newContext()

	Success(c, http.StatusOK, []int{1, 2})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[1,2]`, w.Body.String())
}

func TestNoContent(t *testing.T) {
	c, w := newContext()

	NoContent(c, http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCodeFor(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", codeFor(http.StatusBadRequest))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", codeFor(http.StatusInternalServerError))
	assert.Equal(t, "ERROR", codeFor(799))
}
