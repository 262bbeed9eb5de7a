package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/models"
	"hotel-concierge-platform/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	users := client.Database(cfg.DBName).Collection("users")

	var existing models.User
	if err := users.FindOne(context.Background(),
		bson.M{"role": "superadmin"}).Decode(&existing); err == nil {
		fmt.Println("Superadmin already exists:", existing.Username)
		os.Exit(0)
	}

	username := os.Getenv("SUPERADMIN_USERNAME")
	if username == "" {
		username = "superadmin"
	}
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SUPERADMIN_PASSWORD is required")
	}
	email := os.Getenv("SUPERADMIN_EMAIL")

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	user := models.User{
		Username:     username,
		Name:         "Platform Operator",
		Email:        email,
		PasswordHash: hash,
		Role:         "superadmin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := users.InsertOne(context.Background(), user)
	if err != nil {
		log.Fatalf("Failed to create superadmin: %v", err)
	}

	fmt.Println("Superadmin created")
	fmt.Println("  Username:", username)
	fmt.Println("  User ID: ", result.InsertedID.(primitive.ObjectID).Hex())
	fmt.Println("Login at POST /api/auth/login")
}
