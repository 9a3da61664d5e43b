package cart

import (
	"context"
	"errors"

	"philately/db"
	"philately/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Load fetches a user's cart document and rebuilds the store. A missing
// document is an empty cart, not an error.
func Load(ctx context.Context, userID string) (*Store, error) {
	var doc models.CartDoc
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NewStore(), nil
		}
		return nil, err
	}
	return FromDoc(doc), nil
}

// Save upserts the store snapshot as the user's single cart document.
// The load-mutate-replace cycle is not serialized: only the owning user
// writes their cart, and concurrent writes from the same user are
// last-write-wins. FromDoc rebuilds the aggregates on the next load either
// way. Anything needing stronger guarantees takes the wallet's Redis lock.
func Save(ctx context.Context, userID string, s *Store) error {
	doc := s.Doc(userID)
	opts := options.Replace().SetUpsert(true)
	_, err := db.CartCollection.ReplaceOne(ctx, bson.M{"userId": userID}, doc, opts)
	return err
}

// Clear removes the user's cart document entirely.
func Clear(ctx context.Context, userID string) error {
	_, err := db.CartCollection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}
