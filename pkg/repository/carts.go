package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(store *Store) *CartRepository {
	return &CartRepository{collection: store.collection("carts")}
}

// GetByUser loads the single cart owned by the given user.
func (r *CartRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// Save persists the cart. New carts are inserted; existing carts are written
// conditionally on the version they were loaded with, so a concurrent writer
// surfaces as ErrVersionConflict instead of a silent lost update.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now

	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
		cart.Version = 1
		if cart.CreatedAt.IsZero() {
			cart.CreatedAt = now
		}
		if _, err := r.collection.InsertOne(ctx, cart); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Another request created this user's cart first.
				return ErrVersionConflict
			}
			return fmt.Errorf("failed to insert cart: %w", err)
		}
		return nil
	}

	loadedVersion := cart.Version
	cart.Version = loadedVersion + 1

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": cart.ID, "version": loadedVersion},
		bson.M{"$set": cart},
	)
	if err != nil {
		cart.Version = loadedVersion
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if result.MatchedCount == 0 {
		cart.Version = loadedVersion
		return ErrVersionConflict
	}
	return nil
}

// Delete removes the user's cart, typically after an order is placed.
func (r *CartRepository) Delete(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
