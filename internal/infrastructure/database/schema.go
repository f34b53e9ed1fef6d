package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	pgtx "bookreview-backend/pkg/database"
)

// Identifiers are 24-char hex ObjectIDs in both storage backends.
// Reviews have no ON DELETE CASCADE: the book service deletes them before the book.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(24) PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT uq_users_email UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id          CHAR(24) PRIMARY KEY,
		title       TEXT NOT NULL CHECK (title <> ''),
		author      TEXT NOT NULL CHECK (author <> ''),
		description TEXT NOT NULL DEFAULT '',
		genre       TEXT NOT NULL DEFAULT '',
		year        INTEGER,
		added_by    CHAR(24) NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_created_at ON books (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_books_added_by ON books (added_by, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          CHAR(24) PRIMARY KEY,
		book_id     CHAR(24) NOT NULL REFERENCES books(id),
		user_id     CHAR(24) NOT NULL REFERENCES users(id),
		rating      SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		review_text TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CONSTRAINT uq_reviews_book_user UNIQUE (book_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_book_created ON reviews (book_id, created_at DESC)`,
}

// Migrate tạo tables và indexes nếu chưa tồn tại. Idempotent.
// All statements run in one transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	err := pgtx.WithTransaction(ctx, pool, func(tx pgx.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("statements", len(schemaStatements)).Msg("[DATABASE] Schema is up to date")
	return nil
}
