package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/review/model"
)

// =====================================================
// SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	CreateReview(ctx context.Context, userID primitive.ObjectID, req model.CreateReviewRequest) (*model.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID primitive.ObjectID, req model.UpdateReviewRequest) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID) error
	GetReviewsByBook(ctx context.Context, bookID primitive.ObjectID) (*model.BookReviewsResponse, error)
}
