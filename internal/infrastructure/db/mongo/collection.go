package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
)

// Collection is a generic MongoDB-backed repository for ledger documents.
// Domain types carry their own bson tags, so documents round-trip without a
// mapping layer.
type Collection[T any] struct {
	coll *mongo.Collection
}

func NewCollection[T any](db *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name)}
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var out T
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	return &out, nil
}

func (c *Collection[T]) List(ctx context.Context, opts ports.ListOptions) ([]T, int64, error) {
	total, err := c.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}

	findOpts := options.Find().
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := c.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", c.coll.Name(), err)
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return out, total, nil
}

func (c *Collection[T]) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
