package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceRepository allocates monotonically increasing numbers from named
// counter documents. FindOneAndUpdate with $inc is atomic per document, so
// two concurrent allocations can never observe the same value.
type SequenceRepository struct {
	collection *mongo.Collection
}

func NewSequenceRepository(store *Store) *SequenceRepository {
	return &SequenceRepository{collection: store.collection("sequences")}
}

func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence %q: %w", name, err)
	}
	return counter.Seq, nil
}
