package handler

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bookModel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/service"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// =====================================================
// AUTHENTICATED ENDPOINTS
// =====================================================

// CreateReview creates new review
// POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// UpdateReview replaces rating and text
// PUT /api/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}
	reviewID, ok := pathID(c, "id", model.NewInvalidReviewIDError)
	if !ok {
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, review)
}

// DeleteReview
// DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}
	reviewID, ok := pathID(c, "id", model.NewInvalidReviewIDError)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Review deleted")
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// GetReviewsByBook lists a book's reviews with the rating summary
// GET /api/reviews/book/:bookId
func (h *ReviewHandler) GetReviewsByBook(c *gin.Context) {
	bookID, ok := pathID(c, "bookId", bookModel.NewInvalidBookIDError)
	if !ok {
		return
	}

	data, err := h.reviewService.GetReviewsByBook(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func pathID(c *gin.Context, param string, invalid func() *shared.AppError) (primitive.ObjectID, bool) {
	id, err := utils.ParseObjectID(c.Param(param))
	if err != nil {
		response.Error(c, invalid())
		return primitive.NilObjectID, false
	}
	return id, true
}
