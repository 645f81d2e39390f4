// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ConnectDB dials MongoDB and verifies the connection with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on. All creations are
// idempotent; Mongo ignores an existing identical index.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type indexSpec struct {
		collection string
		models     []mongo.IndexModel
	}

	unique := options.Index().SetUnique(true)

	specs := []indexSpec{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "user_name_ci", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "role", Value: 1}}},
			},
		},
		{
			collection: "projects",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
				{Keys: bson.D{{Key: "phase", Value: 1}}},
			},
		},
		{
			collection: "tasks",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: 1}}},
				{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
				{Keys: bson.D{{Key: "status", Value: 1}}},
			},
		},
		{
			collection: "project_team_members",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
				{Keys: bson.D{{Key: "user_id", Value: 1}}},
			},
		},
		{
			collection: "messages",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: 1}}},
			},
		},
		{
			collection: "feedback",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "iterations",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "files",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
				{Keys: bson.D{{Key: "storage_key", Value: 1}}, Options: unique},
			},
		},
		{
			collection: "payments",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}}},
				{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.collection, err)
		}
	}

	logger.Info("schema ensured", zap.Int("collections", len(specs)))
	return nil
}
