package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/user/model"
)

// UserRepository định nghĩa data access cho users.
// Implementations: postgres, mongo, và cached decorator.
type UserRepository interface {
	// Create persists u; returns model.ErrEmailAlreadyExists on duplicate email
	Create(ctx context.Context, u *model.User) error

	// GetByID returns model.ErrUserNotFound when there is no such user
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)

	// FindByEmail includes the password hash; used only by login
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// GetNames resolves display names for a set of user ids.
	// Ids with no user are simply absent from the result.
	GetNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}
