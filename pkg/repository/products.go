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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{collection: store.collection("products")}
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ProductFilter narrows List results; zero values mean no constraint.
type ProductFilter struct {
	Category primitive.ObjectID
	Featured bool
	OnSale   bool
	Page     int64
	Limit    int64
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error) {
	query := bson.M{"is_active": true}
	if !filter.Category.IsZero() {
		query["categories"] = filter.Category
	}
	if filter.Featured {
		query["featured"] = true
	}
	if filter.OnSale {
		query["is_on_sale"] = true
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock atomically takes qty units off the shelf and counts them as
// sold. The write only matches while enough stock remains, so stock can never
// go negative under concurrent checkouts.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "count_in_stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"count_in_stock": -qty, "sold": qty}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if err == nil && count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock undoes a DecrementStock, used to compensate a checkout that
// failed partway through.
func (r *ProductRepository) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"count_in_stock": qty, "sold": -qty}},
	)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}
