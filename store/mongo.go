package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Azi77ry/personal-App/models"
)

const documentCollection = "user_documents"

// MongoBackend keeps one document per user in the user_documents collection,
// keyed by user id. Save is a single ReplaceOne upsert, so a concurrent Load
// observes either the old or the new document, never a partial write.
type MongoBackend struct {
	collection *mongo.Collection
}

func NewMongoBackend(client *mongo.Client, database string) *MongoBackend {
	return &MongoBackend{
		collection: client.Database(database).Collection(documentCollection),
	}
}

type mongoUserDocument struct {
	ID                  string `bson:"_id"`
	models.UserDocument `bson:",inline"`
}

type mongoRawDocument struct {
	ID          string `bson:"_id"`
	rawDocument `bson:",inline"`
}

func (b *MongoBackend) Load(ctx context.Context, userID string) (*rawDocument, error) {
	var stored mongoRawDocument
	err := b.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: load document for user %s: %v", ErrUnavailable, userID, err)
	}
	return &stored.rawDocument, nil
}

func (b *MongoBackend) Save(ctx context.Context, userID string, doc *models.UserDocument) error {
	stored := mongoUserDocument{ID: userID, UserDocument: *doc}
	_, err := b.collection.ReplaceOne(ctx, bson.M{"_id": userID}, stored, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: save document for user %s: %v", ErrUnavailable, userID, err)
	}
	return nil
}

func (b *MongoBackend) Users(ctx context.Context) ([]string, error) {
	result := b.collection.Distinct(ctx, "_id", bson.D{})
	var users []string
	if err := result.Decode(&users); err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrUnavailable, err)
	}
	return users, nil
}

func (b *MongoBackend) Ping(ctx context.Context) error {
	if err := b.collection.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
