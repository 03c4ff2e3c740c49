// internal/domain/user/admin_service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminService handles customer management for administrators
type AdminService struct {
	client *store.Client
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(client *store.Client, cfg *config.Config) *AdminService {
	return &AdminService{
		client: client,
		config: cfg,
	}
}

// UserWithStats pairs an account with its order history summary
type UserWithStats struct {
	User        User    `json:"user"`
	OrderCount  int64   `json:"order_count"`
	TotalSpent  float64 `json:"total_spent"`
	ReviewCount int64   `json:"review_count"`
}

// UserStatusUpdateRequest represents a block/unblock request
type UserStatusUpdateRequest struct {
	IsActive bool   `json:"is_active"`
	Reason   string `json:"reason"`
}

// GetUsers lists customer accounts, newest first
func (s *AdminService) GetUsers(ctx context.Context) ([]User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.users().Find(queryCtx, bson.M{"role": RoleUser}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(queryCtx)

	var users []User
	if err := cursor.All(queryCtx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for i := range users {
		users[i].Sanitize()
	}
	return users, nil
}

// GetUser retrieves one account with its stats
func (s *AdminService) GetUser(ctx context.Context, userID string) (*UserWithStats, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var u User
	err = s.users().FindOne(queryCtx, bson.M{"_id": objectID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	u.Sanitize()

	stats := &UserWithStats{User: u}

	stats.OrderCount, _ = s.client.Collection(store.CollectionOrders).
		CountDocuments(queryCtx, bson.M{"userId": userID})
	stats.ReviewCount, _ = s.client.Collection(store.CollectionReviews).
		CountDocuments(queryCtx, bson.M{"userId": userID})

	// Lifetime spend over delivered orders
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"userId": userID, "status": "delivered"}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalAmount"},
		}}},
	}
	cursor, err := s.client.Collection(store.CollectionOrders).Aggregate(queryCtx, pipeline)
	if err == nil {
		var results []bson.M
		if err := cursor.All(queryCtx, &results); err == nil && len(results) > 0 {
			if total, ok := results[0]["total"].(float64); ok {
				stats.TotalSpent = total
			}
		}
	}

	return stats, nil
}

// UpdateUserStatus blocks or unblocks an account
func (s *AdminService) UpdateUserStatus(ctx context.Context, userID string, req *UserStatusUpdateRequest) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.users().UpdateOne(queryCtx,
		bson.M{"_id": objectID, "role": RoleUser},
		bson.M{"$set": bson.M{"isActive": req.IsActive, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AdminService) users() *mongo.Collection {
	return s.client.Collection(store.CollectionUsers)
}
