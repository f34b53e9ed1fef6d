package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/infrastructure/mongodb"
)

// =====================================================
// MONGO REPOSITORY IMPLEMENTATION
// =====================================================

type mongoReviewRepository struct {
	coll *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepository{coll: db.Collection(mongodb.ReviewsCollection)}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		// unique index uq_reviews_book_user
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *mongoReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoReviewRepository) GetByUserAndBook(
	ctx context.Context,
	userID, bookID primitive.ObjectID,
) (*model.Review, error) {
	return r.findOne(ctx, bson.M{"bookId": bookID, "userId": userID})
}

func (r *mongoReviewRepository) Update(ctx context.Context, review *model.Review) error {
	update := bson.M{"$set": bson.M{
		"rating":     review.Rating,
		"reviewText": review.ReviewText,
		"updatedAt":  review.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, review.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *mongoReviewRepository) ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]*model.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.coll.Find(ctx, bson.M{"bookId": bookID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*model.Review, 0)
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) GetRatings(ctx context.Context, bookID primitive.ObjectID) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"rating": 1})

	cur, err := r.coll.Find(ctx, bson.M{"bookId": bookID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}

	var docs []struct {
		Rating int `bson:"rating"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	ratings := make([]int, 0, len(docs))
	for _, d := range docs {
		ratings = append(ratings, d.Rating)
	}
	return ratings, nil
}

func (r *mongoReviewRepository) DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"bookId": bookID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews of book: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoReviewRepository) findOne(ctx context.Context, filter bson.M) (*model.Review, error) {
	var review model.Review
	if err := r.coll.FindOne(ctx, filter).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}
