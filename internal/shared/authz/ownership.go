// Package authz holds the ownership rule for mutating books and reviews.
package authz

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/shared"
)

// IsOwner reports whether actor may mutate a resource owned by owner.
// A zero actor never owns anything.
func IsOwner(actor, owner primitive.ObjectID) bool {
	return !actor.IsZero() && actor == owner
}

// RequireOwner returns an authorization error carrying message unless actor owns the resource
func RequireOwner(actor, owner primitive.ObjectID, message string) error {
	if IsOwner(actor, owner) {
		return nil
	}
	return shared.NewAuthorizationError(message)
}
