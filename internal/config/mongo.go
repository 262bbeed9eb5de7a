package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	if err := createIndexes(client, cfg.DBName); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	ctx := context.Background()

	usersIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}},
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, usersIndexes); err != nil {
		return err
	}

	tenantsIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tariff_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "auto_update", Value: 1}},
		},
	}
	if _, err := db.Collection("tenants").Indexes().CreateMany(ctx, tenantsIndexes); err != nil {
		return err
	}

	messagesIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "session_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}
	if _, err := db.Collection("messages").Indexes().CreateMany(ctx, messagesIndexes); err != nil {
		return err
	}

	documentsIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "filename", Value: 1}}},
	}
	if _, err := db.Collection("documents").Indexes().CreateMany(ctx, documentsIndexes); err != nil {
		return err
	}

	chunksIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
		{Keys: bson.D{{Key: "document_id", Value: 1}}},
	}
	if _, err := db.Collection("document_chunks").Indexes().CreateMany(ctx, chunksIndexes); err != nil {
		return err
	}

	templatesIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "type", Value: 1}}},
	}
	if _, err := db.Collection("email_templates").Indexes().CreateMany(ctx, templatesIndexes); err != nil {
		return err
	}

	auditIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
	}
	if _, err := db.Collection("audit_events").Indexes().CreateMany(ctx, auditIndexes); err != nil {
		return err
	}

	quotaIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("ai_quotas").Indexes().CreateMany(ctx, quotaIndexes); err != nil {
		return err
	}

	return nil
}
