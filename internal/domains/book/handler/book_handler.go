package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"weblibrary/internal/domains/book/model"
	service "weblibrary/internal/domains/book/service"
	"weblibrary/internal/shared/response"
)

// BasePath is the collection path the router mounts the handler under.
const BasePath = "/api/book"

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /api/book
// Query params: author, year, genre, language, pagesFrom, pagesTo, isAvailable
func (h *Handler) ListBooks(c *gin.Context) {
	filter, err := model.ParseFilter(c.Request.URL.Query())
	if model.HandleBookError(c, err) {
		return
	}

	books, err := h.service.ListBooks(c.Request.Context(), filter)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, books)
}

// GetFilters - GET /api/book/filters
func (h *Handler) GetFilters(c *gin.Context) {
	opts, err := h.service.GetFilterOptions(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, opts)
}

// GetBook - GET /api/book/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, b)
}

// CreateBook - POST /api/book
// Responds 201 with the stored book and its Location.
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.BookRequest

	// 1. Bind request
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("[Handler] invalid create book request")
		model.HandleBookError(c, fmt.Errorf("%w: %v", model.ErrInvalidBody, err))
		return
	}

	// 2. Call service (validates and stores)
	created, err := h.service.CreateBook(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	// 3. Return success
	c.Header("Location", fmt.Sprintf("%s/%d", BasePath, created.ID))
	response.Success(c, http.StatusCreated, created)
}

// UpdateBook - PUT /api/book/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("[Handler] invalid update book request")
		model.HandleBookError(c, fmt.Errorf("%w: %v", model.ErrInvalidBody, err))
		return
	}

	err := h.service.UpdateBook(c.Request.Context(), id, req)
	if model.HandleBookError(c, err) {
		return
	}

	response.NoContent(c, http.StatusNoContent)
}

// DeleteBooks - DELETE /api/book
// Body: JSON array of ids.
func (h *Handler) DeleteBooks(c *gin.Context) {
	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		model.HandleBookError(c, fmt.Errorf("%w: expected a JSON array of ids: %v", model.ErrInvalidBody, err))
		return
	}

	err := h.service.DeleteBooks(c.Request.Context(), ids)
	if model.HandleBookError(c, err) {
		return
	}

	response.NoContent(c, http.StatusNoContent)
}

func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		model.HandleBookError(c, fmt.Errorf("%w: %q", model.ErrInvalidBookID, c.Param("id")))
		return 0, false
	}
	return id, true
}

// RegisterRoutes mounts the book endpoints on rg at BasePath.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/book")
	{
		books.GET("", h.ListBooks)
		books.GET("/filters", h.GetFilters)
		books.GET("/:id", h.GetBook)
		books.POST("", h.CreateBook)
		books.PUT("/:id", h.UpdateBook)
		books.DELETE("", h.DeleteBooks)
	}
}
