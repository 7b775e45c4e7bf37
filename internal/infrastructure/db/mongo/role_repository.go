package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fab1/auth-service/internal/core/domain"
)

const rolesCollection = "roles"

// RoleRepository persists role records in MongoDB. Roles are keyed by name;
// the unique index makes creation idempotent under concurrent seeding.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRoleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var doc mongoRoleDoc
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID.Hex(), Name: doc.Name, Description: doc.Description}, nil
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

func (r *RoleRepository) Create(ctx context.Context, role domain.Role) (*domain.Role, error) {
	_, err := r.coll.InsertOne(ctx, mongoRoleDoc{Name: role.Name, Description: role.Description})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// A concurrent seeder won the race; the role exists.
			return r.FindByName(ctx, role.Name)
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return r.FindByName(ctx, role.Name)
}
