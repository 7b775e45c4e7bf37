package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fab1/auth-service/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists user accounts in MongoDB. The unique index on
// username (see EnsureIndexes) is the authoritative uniqueness guarantee:
// concurrent registrations racing past the existence check are resolved
// here, at insert time.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoRole struct {
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Enabled      bool               `bson:"enabled"`
	Roles        []mongoRole        `bson:"roles"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func toMongoUser(u domain.User) mongoUser {
	roles := make([]mongoRole, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, mongoRole{Name: r.Name, Description: r.Description})
	}
	return mongoUser{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Enabled:      u.Enabled,
		Roles:        roles,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, r := range mu.Roles {
		roles = append(roles, domain.Role{Name: r.Name, Description: r.Description})
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Enabled:      mu.Enabled,
		Roles:        roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	_, err := r.coll.InsertOne(ctx, toMongoUser(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// fetch back to get the assigned id
	return r.FindByUsername(ctx, user.Username)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (*domain.User, error) {
	doc := toMongoUser(user)
	doc.UpdatedAt = time.Now().UTC().Unix()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": user.Username},
		bson.M{"$set": bson.M{
			"password_hash": doc.PasswordHash,
			"enabled":       doc.Enabled,
			"roles":         doc.Roles,
			"updated_at":    doc.UpdatedAt,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByUsername(ctx, user.Username)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
