package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// =====================================================
// REVIEW ENTITY
// =====================================================

// Review is one user's rating of one book. (bookId, userId) is unique.
type Review struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	BookID     primitive.ObjectID `bson:"bookId" json:"bookId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Rating     int                `bson:"rating" json:"rating"`
	ReviewText string             `bson:"reviewText" json:"reviewText"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
