package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Create returns model.ErrAlreadyReviewed when (bookId, userId) already exists
	Create(ctx context.Context, review *model.Review) error

	// GetByID returns model.ErrReviewNotFound when missing
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)

	// GetByUserAndBook gets review by user and book (for uniqueness check)
	GetByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*model.Review, error)

	// Update stores rating, reviewText and updatedAt
	Update(ctx context.Context, review *model.Review) error

	Delete(ctx context.Context, id primitive.ObjectID) error

	// ========================================
	// BY BOOK
	// ========================================

	// ListByBook returns every review of a book, newest first
	ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]*model.Review, error)

	// GetRatings returns the raw ratings of a book for aggregation
	GetRatings(ctx context.Context, bookID primitive.ObjectID) ([]int, error)

	// DeleteByBook removes all reviews of a book, returns how many were removed
	DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error)
}
