package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const userCollection = "users"

// MongoDirectory stores credential records in the users collection with
// unique indexes on username and email, so uniqueness is enforced by the
// database even under concurrent registrations.
type MongoDirectory struct {
	collection *mongo.Collection
}

func NewMongoDirectory(ctx context.Context, client *mongo.Client, database string) (*MongoDirectory, error) {
	collection := client.Database(database).Collection(userCollection)
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}
	return &MongoDirectory{collection: collection}, nil
}

func (d *MongoDirectory) Exists(ctx context.Context, username, email string) (bool, error) {
	clauses := bson.A{bson.M{"username": username}}
	if email != "" {
		clauses = append(clauses, bson.M{"email": email})
	}
	count, err := d.collection.CountDocuments(ctx, bson.M{"$or": clauses})
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return count > 0, nil
}

func (d *MongoDirectory) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := d.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (d *MongoDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	return d.findOne(ctx, bson.M{"username": username})
}

func (d *MongoDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.findOne(ctx, bson.M{"email": email})
}

func (d *MongoDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.findOne(ctx, bson.M{"_id": id})
}

func (d *MongoDirectory) Create(ctx context.Context, username, email string, passwordHash []byte) (string, error) {
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := d.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrExists
		}
		return "", fmt.Errorf("create user %s: %w", username, err)
	}
	return user.ID, nil
}

func (d *MongoDirectory) UpdateEmail(ctx context.Context, id, email string) error {
	result, err := d.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"email": email}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}
		return fmt.Errorf("update email for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *MongoDirectory) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	result, err := d.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password_hash": passwordHash}})
	if err != nil {
		return fmt.Errorf("update password for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
