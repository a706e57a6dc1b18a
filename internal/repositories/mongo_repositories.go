package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoKVStore struct {
	collection *mongo.Collection
}

func NewMongoKVStore(db *mongo.Database) KVStore {
	return &mongoKVStore{
		collection: db.Collection("kv_entries"),
	}
}

func (r *mongoKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc models.KVDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("collection.FindOne: %w", err)
	}
	return doc.Value, nil
}

func (r *mongoKVStore) Set(ctx context.Context, key string, value []byte) error {
	doc := models.KVDocument{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("collection.ReplaceOne: %w", err)
	}
	return nil
}

func (r *mongoKVStore) Delete(ctx context.Context, key string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("collection.DeleteOne: %w", err)
	}
	return nil
}
