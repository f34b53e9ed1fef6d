package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

// Handler - HTTP Handler cho /api/books
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /api/books?page&limit
func (h *Handler) ListBooks(c *gin.Context) {
	page, err := utils.ParsePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.Error(c, model.NewInvalidPaginationError())
		return
	}

	data, err := h.service.ListBooks(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// CreateBook - POST /api/books (protected)
func (h *Handler) CreateBook(c *gin.Context) {
	actor, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, book)
}

// GetMyBooks - GET /api/books/mybooks (protected)
func (h *Handler) GetMyBooks(c *gin.Context) {
	actor, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}

	data, err := h.service.GetMyBooks(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// GetBook - GET /api/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	data, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// GetBookWithReviews - GET /api/books/:id/reviews
func (h *Handler) GetBookWithReviews(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	data, err := h.service.GetBookWithReviews(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// UpdateBook - PUT /api/books/:id (owner only)
func (h *Handler) UpdateBook(c *gin.Context) {
	actor, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}
	id, ok := bookID(c)
	if !ok {
		return
	}

	// an empty body is an update that changes nothing
	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, book)
}

// DeleteBook - DELETE /api/books/:id (owner only). Reviews of the book go with it.
func (h *Handler) DeleteBook(c *gin.Context) {
	actor, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}
	id, ok := bookID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Book removed")
}

// bookID validates :id and writes the 400 itself on failure
func bookID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		response.Error(c, model.NewInvalidBookIDError())
		return primitive.NilObjectID, false
	}
	return id, true
}
