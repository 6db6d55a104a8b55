package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// BillRepository extends the generic collection with the overdue sweep used
// by the background job.
type BillRepository struct {
	*Collection[domain.Bill]
	coll *mongo.Collection
}

func NewBillRepository(db *mongo.Database) *BillRepository {
	return &BillRepository{
		Collection: NewCollection[domain.Bill](db, domain.ResourceBills),
		coll:       db.Collection(domain.ResourceBills),
	}
}

// MarkOverdue flips every pending bill past its due date to overdue and
// returns how many were updated.
func (r *BillRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{
			"status":   domain.BillPending,
			"due_date": bson.M{"$lt": now},
		},
		bson.M{"$set": bson.M{
			"status":     domain.BillOverdue,
			"updated_at": now,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return res.ModifiedCount, nil
}
