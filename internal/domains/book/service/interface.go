package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/shared/utils"
)

type ServiceInterface interface {
	ListBooks(ctx context.Context, page utils.Pagination) (*model.BookListResponse, error)
	CreateBook(ctx context.Context, actor primitive.ObjectID, req model.CreateBookRequest) (*model.Book, error)
	GetMyBooks(ctx context.Context, actor primitive.ObjectID) (*model.MyBooksResponse, error)
	GetBook(ctx context.Context, id primitive.ObjectID) (*model.BookDetailResponse, error)
	GetBookWithReviews(ctx context.Context, id primitive.ObjectID) (*model.BookWithReviewsResponse, error)
	UpdateBook(ctx context.Context, actor, id primitive.ObjectID, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, actor, id primitive.ObjectID) error
}
