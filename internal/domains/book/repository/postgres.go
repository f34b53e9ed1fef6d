package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/infrastructure/database"
)

const bookColumns = `id, title, author, description, genre, year, added_by, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// ========================================
// CRUD
// ========================================

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID.Hex(),
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.Year,
		book.AddedBy.Hex(),
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	return scanBook(r.pool.QueryRow(ctx, query, id.Hex()))
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	// added_by is never updated
	query := `
		UPDATE books
		SET title = $2, author = $3, description = $4, genre = $5, year = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		book.ID.Hex(),
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.Year,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id.Hex())
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// ========================================
// LISTING
// ========================================

func (r *postgresRepository) List(ctx context.Context, skip, limit int64) ([]*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`
	return r.queryBooks(ctx, query, skip, limit)
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE added_by = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryBooks(ctx, query, owner.Hex())
}

// ========================================
// HELPERS
// ========================================

func (r *postgresRepository) queryBooks(ctx context.Context, query string, args ...interface{}) ([]*model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]*model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var book model.Book
	var rawID, rawOwner string

	err := row.Scan(
		&rawID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Genre,
		&book.Year,
		&rawOwner,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}

	if book.ID, err = database.ParseHexID(rawID); err != nil {
		return nil, err
	}
	if book.AddedBy, err = database.ParseHexID(rawOwner); err != nil {
		return nil, err
	}
	return &book, nil
}
