package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"hotel-concierge-platform/internal/ai"
	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate <command>")
		fmt.Println("Commands:")
		fmt.Println("  backfill-tenants  - Fill missing defaults on existing tenant records")
		fmt.Println("  verify            - Report tenants still missing required fields")
		os.Exit(1)
	}
	command := os.Args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	tenants := client.Database(cfg.DBName).Collection("tenants")

	switch command {
	case "backfill-tenants":
		if err := backfillTenants(tenants); err != nil {
			log.Fatalf("Backfill failed: %v", err)
		}
		fmt.Println("Backfill completed")

	case "verify":
		if err := verifyTenants(tenants); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

// backfillTenants fills the fields older tenant records predate: widget
// defaults, the widget secret, an AI settings block and the template
// version. Existing values are never overwritten.
func backfillTenants(tenants *mongo.Collection) error {
	ctx := context.Background()

	cursor, err := tenants.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	updated := 0
	for cursor.Next(ctx) {
		var tenant models.Tenant
		if err := cursor.Decode(&tenant); err != nil {
			return err
		}

		set := bson.M{}
		if tenant.WidgetSecret == "" {
			secret, err := utils.GenerateWidgetSecret()
			if err != nil {
				return err
			}
			set["widget_secret"] = secret
		}
		if tenant.TemplateVersion == "" {
			set["template_version"] = "1.0.0"
		}
		if tenant.TariffID == "" {
			set["tariff_id"] = "basic"
		}
		if tenant.Status == "" {
			set["status"] = "active"
		}
		if tenant.Widget.ButtonSize == 0 {
			set["widget"] = models.DefaultWidgetSettings()
		}
		if tenant.AI.ChatProvider == "" {
			set["ai"] = models.AISettings{
				ChatProvider:      "openai",
				ChatModel:         ai.DefaultChatModel("openai"),
				EmbeddingProvider: "openai",
				EmbeddingModel:    ai.DefaultEmbeddingModel("openai"),
				Temperature:       0.7,
			}
		}
		if len(set) == 0 {
			continue
		}

		set["updated_at"] = time.Now()
		if _, err := tenants.UpdateOne(ctx,
			bson.M{"_id": tenant.ID}, bson.M{"$set": set}); err != nil {
			return fmt.Errorf("tenant %s: %w", tenant.Slug, err)
		}
		updated++
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	fmt.Printf("Updated %d tenant(s)\n", updated)
	return nil
}

func verifyTenants(tenants *mongo.Collection) error {
	ctx := context.Background()

	missing := bson.M{"$or": []bson.M{
		{"widget_secret": bson.M{"$in": []interface{}{nil, ""}}},
		{"template_version": bson.M{"$in": []interface{}{nil, ""}}},
		{"tariff_id": bson.M{"$in": []interface{}{nil, ""}}},
		{"ai.chat_provider": bson.M{"$in": []interface{}{nil, ""}}},
	}}

	cursor, err := tenants.Find(ctx, missing)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var tenant models.Tenant
		if err := cursor.Decode(&tenant); err != nil {
			return err
		}
		fmt.Printf("  incomplete: %s (%s)\n", tenant.Slug, tenant.ID.Hex())
		count++
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	if count == 0 {
		fmt.Println("All tenants complete")
	} else {
		fmt.Printf("%d tenant(s) incomplete, run backfill-tenants\n", count)
	}
	return nil
}
