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

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{collection: store.collection("orders")}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// List returns orders newest first. A zero userID returns all orders.
func (r *OrderRepository) List(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	query := bson.M{}
	if !userID.IsZero() {
		query["user"] = userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// Update rewrites the order's mutable fields (status, history, payment and
// delivery flags). Order lines are immutable and never touched here.
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{
			"status":          order.Status,
			"status_history":  order.StatusHistory,
			"is_paid":         order.IsPaid,
			"paid_at":         order.PaidAt,
			"payment_result":  order.PaymentResult,
			"is_delivered":    order.IsDelivered,
			"delivered_at":    order.DeliveredAt,
			"tracking_number": order.TrackingNumber,
			"updated_at":      order.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
