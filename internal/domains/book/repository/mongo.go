package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/infrastructure/mongodb"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) RepositoryInterface {
	return &mongoRepository{coll: db.Collection(mongodb.BooksCollection)}
}

func (r *mongoRepository) Create(ctx context.Context, book *model.Book) error {
	if _, err := r.coll.InsertOne(ctx, book); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	var book model.Book
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&book); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &book, nil
}

func (r *mongoRepository) Update(ctx context.Context, book *model.Book) error {
	set := bson.M{
		"title":       book.Title,
		"author":      book.Author,
		"description": book.Description,
		"genre":       book.Genre,
		"updatedAt":   book.UpdatedAt,
	}
	if book.Year != nil {
		set["year"] = *book.Year
	}

	res, err := r.coll.UpdateByID(ctx, book.ID, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *mongoRepository) List(ctx context.Context, skip, limit int64) ([]*model.Book, error) {
	opts := options.Find().SetSort(newestFirst).SetSkip(skip).SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func (r *mongoRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]*model.Book, error) {
	return r.find(ctx, bson.M{"addedBy": owner}, options.Find().SetSort(newestFirst))
}

func (r *mongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Book, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	books := make([]*model.Book, 0)
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}
