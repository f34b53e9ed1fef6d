package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: UsersCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("uq_users_email").SetUnique(true),
				},
			},
		},
		{
			collection: BooksCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
					Options: options.Index().SetName("idx_books_created_at"),
				},
				{
					Keys:    bson.D{{Key: "addedBy", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("idx_books_added_by"),
				},
			},
		},
		{
			collection: ReviewsCollection,
			models: []mongo.IndexModel{
				// one review per (book, user)
				{
					Keys:    bson.D{{Key: "bookId", Value: 1}, {Key: "userId", Value: 1}},
					Options: options.Index().SetName("uq_reviews_book_user").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "bookId", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("idx_reviews_book_created"),
				},
			},
		},
	}
}

// EnsureIndexes tạo indexes nếu chưa tồn tại. Idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return fmt.Errorf("mongo database is not initialized")
	}

	total := 0
	for _, plan := range indexPlan() {
		names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", plan.collection, err)
		}
		total += len(names)
	}

	log.Info().Int("indexes", total).Msg("[MONGO] Indexes are up to date")
	return nil
}
