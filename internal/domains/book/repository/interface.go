package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
)

// RepositoryInterface - data access cho books
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error

	// GetByID returns model.ErrBookNotFound when missing
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error)

	// Update persists the mutable fields and updatedAt
	Update(ctx context.Context, book *model.Book) error

	Delete(ctx context.Context, id primitive.ObjectID) error

	// List returns one page ordered by createdAt descending
	List(ctx context.Context, skip, limit int64) ([]*model.Book, error)

	Count(ctx context.Context) (int64, error)

	// ListByOwner returns every book added by owner, newest first
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]*model.Book, error)
}
