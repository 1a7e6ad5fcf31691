package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UniqueIndex builds a unique ascending index over the given fields, in order.
func UniqueIndex(fields ...string) mongo.IndexModel {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(true),
	}
}

// Index builds a non-unique ascending index over the given fields.
func Index(fields ...string) mongo.IndexModel {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return mongo.IndexModel{Keys: keys}
}

// EnsureIndexes creates the indexes if they are missing. Creating an existing identical
// index is a no-op on the server.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, models ...mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return errors.Join(ErrIndexCreation, err)
	}
	return nil
}
