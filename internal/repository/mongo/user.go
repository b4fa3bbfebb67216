package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/model"
)

// userDocument is the stored shape of a user.
type userDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Password        string             `bson:"password"`
	ProfileImageURL *string            `bson:"profileImageUrl"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Email:           d.Email,
		PasswordHash:    d.Password,
		ProfileImageURL: d.ProfileImageURL,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// CreateUser inserts u. The unique index on email turns a second
// registration of the same address into apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	ts := db.clock.now()
	doc := userDocument{
		ID:              primitive.NewObjectID(),
		Name:            u.Name,
		Email:           u.Email,
		Password:        u.PasswordHash,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}

	if _, err := db.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("User already exists")
		}
		return fmt.Errorf("mongo: inserting user: %w", err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = ts
	u.UpdatedAt = ts
	return nil
}

// GetUserByID retrieves a user by the hex form of their ObjectID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return db.findUser(ctx, bson.M{"_id": oid})
}

// GetUserByEmail retrieves a user by exact email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.findUser(ctx, bson.M{"email": email})
}

func (db *DB) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := db.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("mongo: finding user: %w", err)
	}
	return doc.toModel(), nil
}
