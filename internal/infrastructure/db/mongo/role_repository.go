package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

const rolesCollection = "user_roles"

// RoleRepository is the single-row role lookup consulted after sign-in.
// A missing row means the user runs with the default role.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type roleDoc struct {
	UserID string `bson:"_id"`
	Role   string `bson:"role"`
}

func (r *RoleRepository) RoleFor(ctx context.Context, userID string) (domain.Role, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return domain.Role(doc.Role), nil
}

func (r *RoleRepository) Assign(ctx context.Context, userID string, role domain.Role) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"role": string(role)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}
