package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/infrastructure/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const reviewColumns = `id, book_id, user_id, rating, review_text, created_at, updated_at`

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID.Hex(),
		review.BookID.Hex(),
		review.UserID.Hex(),
		review.Rating,
		review.ReviewText,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		// Check unique constraint violation
		if database.IsUniqueViolation(err, "uq_reviews_book_user") {
			return model.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// =====================================================
// GET
// =====================================================

func (r *postgresReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.pool.QueryRow(ctx, query, id.Hex()))
}

func (r *postgresReviewRepository) GetByUserAndBook(
	ctx context.Context,
	userID, bookID primitive.ObjectID,
) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND book_id = $2`
	return scanReview(r.pool.QueryRow(ctx, query, userID.Hex(), bookID.Hex()))
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, review_text = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, review.ID.Hex(), review.Rating, review.ReviewText, review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id.Hex())
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

// =====================================================
// BY BOOK
// =====================================================

func (r *postgresReviewRepository) ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]*model.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE book_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, bookID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *postgresReviewRepository) GetRatings(ctx context.Context, bookID primitive.ObjectID) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT rating FROM reviews WHERE book_id = $1`, bookID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}

	ratings, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to collect ratings: %w", err)
	}
	return ratings, nil
}

func (r *postgresReviewRepository) DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE book_id = $1`, bookID.Hex())
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews of book: %w", err)
	}
	return tag.RowsAffected(), nil
}

// =====================================================
// HELPERS
// =====================================================

func scanReview(row pgx.Row) (*model.Review, error) {
	var review model.Review
	var rawID, rawBook, rawUser string

	err := row.Scan(
		&rawID,
		&rawBook,
		&rawUser,
		&review.Rating,
		&review.ReviewText,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}

	if review.ID, err = database.ParseHexID(rawID); err != nil {
		return nil, err
	}
	if review.BookID, err = database.ParseHexID(rawBook); err != nil {
		return nil, err
	}
	if review.UserID, err = database.ParseHexID(rawUser); err != nil {
		return nil, err
	}
	return &review, nil
}
