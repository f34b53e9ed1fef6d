package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/config"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	userRepo "bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/internal/infrastructure/mongodb"
)

// Storage giữ connection của backend được chọn bởi DB_DRIVER.
// Exactly one of Postgres / Mongo is set.
type Storage struct {
	Driver   string
	Postgres *database.PostgresDB
	Mongo    *mongodb.MongoDB
}

// Repositories is the set of stores every service is built from
type Repositories struct {
	Users   userRepo.UserRepository
	Books   bookRepo.RepositoryInterface
	Reviews reviewRepo.ReviewRepository
}

// OpenStorage connects to the configured backend
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	s := &Storage{Driver: cfg.Database.Driver}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		dbConfig, err := cfg.PostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)
		if err := db.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.Postgres = db

	case config.DriverMongo:
		m := mongodb.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
		if err := m.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		s.Mongo = m

	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
	}

	return s, nil
}

// Migrate tạo schema (Postgres) hoặc indexes (Mongo). Idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.Postgres != nil {
		return database.Migrate(ctx, s.Postgres.Pool)
	}
	if s.Mongo != nil {
		return mongodb.EnsureIndexes(ctx, s.Mongo.Database)
	}
	return fmt.Errorf("storage is not connected")
}

// Repositories builds the driver specific stores
func (s *Storage) Repositories() Repositories {
	if s.Postgres != nil {
		pool := s.Postgres.Pool
		return Repositories{
			Users:   userRepo.NewPostgresRepository(pool),
			Books:   bookRepo.NewPostgresRepository(pool),
			Reviews: reviewRepo.NewPostgresReviewRepository(pool),
		}
	}

	db := s.Mongo.Database
	return Repositories{
		Users:   userRepo.NewMongoRepository(db),
		Books:   bookRepo.NewMongoRepository(db),
		Reviews: reviewRepo.NewMongoReviewRepository(db),
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if s.Postgres != nil {
		return s.Postgres.HealthCheck(ctx)
	}
	if s.Mongo != nil {
		return s.Mongo.HealthCheck(ctx)
	}
	return fmt.Errorf("storage is not connected")
}

func (s *Storage) Close() {
	if s.Postgres != nil {
		if err := s.Postgres.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
	if s.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Mongo.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close mongo")
		}
	}
}
