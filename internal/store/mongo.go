// Package store owns the MongoDB connection used by a single lmsctl run.
package store

import (
	"context"
	"fmt"
	"time"

	"lmsops/internal/config"
	"lmsops/internal/repository"
	"lmsops/pkg/timer"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	connectTimeout    = 10 * time.Second
	disconnectTimeout = 10 * time.Second
)

// Store bundles the repositories backed by one client. Callers must Close it.
type Store struct {
	client        *mongo.Client
	users         repository.IUserRepository
	notifications repository.INotificationRepository
}

// Open connects to MongoDB and verifies the deployment with a ping.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	sw := timer.NewStopwatch(logger)

	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sw.Lap("mongo connect")

	logger.Debug("connected to mongo", zap.String("database", cfg.Mongo.Database))
	return New(client, client.Database(cfg.Mongo.Database)), nil
}

// New wraps an existing client and database.
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:        client,
		users:         repository.NewUserRepository(db),
		notifications: repository.NewNotificationRepository(db),
	}
}

func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func (s *Store) Users() repository.IUserRepository                 { return s.users }
func (s *Store) Notifications() repository.INotificationRepository { return s.notifications }

// Close disconnects the MongoDB client
func (s *Store) Close() error {
	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		return s.client.Disconnect(ctx)
	}
	return nil
}
