package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	UsersCollection   = "users"
	BooksCollection   = "books"
	ReviewsCollection = "reviews"
)

// MongoDB giữ process-wide client và database handle
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database

	uri            string
	dbName         string
	connectTimeout time.Duration
}

func NewMongoDB(uri, dbName string, connectTimeout time.Duration) *MongoDB {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	return &MongoDB{
		uri:            uri,
		dbName:         dbName,
		connectTimeout: connectTimeout,
	}
}

// Connect mở client và verify bằng ping tới primary
func (m *MongoDB) Connect(ctx context.Context) error {
	log.Info().Str("database", m.dbName).Msg("[MONGO] Connecting to MongoDB...")

	connectCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.uri).
		SetConnectTimeout(m.connectTimeout).
		SetServerSelectionTimeout(m.connectTimeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping failed: %w", err)
	}

	m.Client = client
	m.Database = client.Database(m.dbName)

	log.Info().Msg("[MONGO] Connected successfully")
	return nil
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	log.Info().Msg("[MONGO] Disconnecting...")
	err := m.Client.Disconnect(ctx)
	m.Client = nil
	m.Database = nil
	return err
}
