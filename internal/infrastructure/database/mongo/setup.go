// internal/infrastructure/database/mongo/setup.go
package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Setup prepares the document store for use: indexes plus development seed data
type Setup struct {
	client *Client
}

// NewSetup creates a new setup instance
func NewSetup(client *Client) *Setup {
	return &Setup{
		client: client,
	}
}

// EnsureIndexes creates the indexes the query paths rely on
func (s *Setup) EnsureIndexes() error {
	log.Println("🔄 Creating document store indexes...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionProducts: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		CollectionOrders: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		CollectionReviews: {
			{Keys: bson.D{{Key: "productId", Value: 1}}},
			{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionFavorites: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionAddresses: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		CollectionMessages: {
			{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "isRead", Value: 1}}},
		},
		CollectionCart: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		CollectionCoupons: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionProductVariants: {
			{Keys: bson.D{{Key: "productId", Value: 1}}},
		},
		CollectionReturnRequests: {
			{Keys: bson.D{{Key: "orderId", Value: 1}}},
		},
		CollectionCancellations: {
			{Keys: bson.D{{Key: "orderId", Value: 1}}},
		},
		CollectionPasswordResets: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}

	for name, models := range indexes {
		if _, err := s.client.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}

	log.Println("✅ Document store indexes created successfully")
	return nil
}

// SeedInitialData seeds a development admin account
func (s *Setup) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := s.client.Collection(CollectionUsers)

	count, err := users.CountDocuments(ctx, bson.M{"email": "admin@storefront.local"})
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin@Store1"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC()
	_, err = users.InsertOne(ctx, bson.M{
		"email":        "admin@storefront.local",
		"password":     string(hashed),
		"name":         "Store Admin",
		"phone":        "",
		"role":         "admin",
		"avatarUrl":    "",
		"isActive":     true,
		"createdAt":    now,
		"updatedAt":    now,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}
