package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrVersionConflict   = errors.New("document version conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store owns the MongoDB connection shared by all repositories. It is
// constructed once at startup and closed on shutdown.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewStore(cfg *config.MongoDBConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &Store{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.database.Collection(name)
}

// EnsureIndexes creates the uniqueness and lookup indexes the repositories
// rely on. Safe to call on every startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"products": {
			{Keys: bson.D{{Key: "sku", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "categories", Value: 1}}},
		},
		"categories": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		"carts": {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		},
		"orders": {
			{Keys: bson.D{{Key: "invoice_number", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := s.collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
