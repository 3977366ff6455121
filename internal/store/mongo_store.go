package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartSession struct {
	Session   string    `bson:"session"`
	CartID    string    `bson:"cart_id"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection("cart_sessions")}
}

func (m *MongoStore) Get(ctx context.Context, session string) (string, error) {
	var doc cartSession
	err := m.collection.FindOne(ctx, bson.M{"session": session}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get cart id: %w", err)
	}
	return doc.CartID, nil
}

func (m *MongoStore) Set(ctx context.Context, session, cartID string) error {
	filter := bson.M{"session": session}
	update := bson.M{"$set": cartSession{Session: session, CartID: cartID, UpdatedAt: time.Now()}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart id: %w", err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, session string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"session": session}); err != nil {
		return fmt.Errorf("failed to delete cart id: %w", err)
	}
	return nil
}

func (m *MongoStore) SessionFor(ctx context.Context, cartID string) (string, error) {
	var doc cartSession
	err := m.collection.FindOne(ctx, bson.M{"cart_id": cartID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to find session: %w", err)
	}
	return doc.Session, nil
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "cart_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(DefaultTTL.Seconds())),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
