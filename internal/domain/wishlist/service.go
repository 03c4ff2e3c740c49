// internal/domain/wishlist/service.go
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotInWishlist is returned when removing a product that was never added
var ErrNotInWishlist = errors.New("product is not in the wishlist")

// Service handles wishlist business logic
type Service struct {
	client         *store.Client
	productService *product.Service
	config         *config.Config
}

// NewService creates a new wishlist service
func NewService(client *store.Client, productService *product.Service, cfg *config.Config) *Service {
	return &Service{
		client:         client,
		productService: productService,
		config:         cfg,
	}
}

// WishlistItemResponse pairs a favorite with its product when it still exists
type WishlistItemResponse struct {
	ProductID string           `json:"product_id"`
	AddedAt   time.Time        `json:"added_at"`
	Product   *product.Product `json:"product,omitempty"`
}

// AddToWishlistRequest represents add to wishlist request
type AddToWishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// GetWishlist lists a user's favorites with product details, newest first.
// Favorites whose product has been removed are listed without details.
func (s *Service) GetWishlist(ctx context.Context, userID string) ([]WishlistItemResponse, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})
	cursor, err := s.collection().Find(queryCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}
	defer cursor.Close(queryCtx)

	var favorites []Favorite
	if err := cursor.All(queryCtx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}

	items := make([]WishlistItemResponse, len(favorites))
	for i, fav := range favorites {
		items[i] = WishlistItemResponse{
			ProductID: fav.ProductID,
			AddedAt:   fav.AddedAt,
		}
		if prod, err := s.productService.GetProduct(ctx, fav.ProductID); err == nil {
			items[i].Product = prod
		}
	}
	return items, nil
}

// AddToWishlist adds a product to the user's favorites; adding an already
// favorited product is a no-op
func (s *Service) AddToWishlist(ctx context.Context, userID string, req *AddToWishlistRequest) error {
	if _, err := s.productService.GetProduct(ctx, req.ProductID); err != nil {
		return err
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	// Upsert keeps the unique userId+productId index happy on double taps
	_, err := s.collection().UpdateOne(queryCtx,
		bson.M{"userId": userID, "productId": req.ProductID},
		bson.M{"$setOnInsert": bson.M{
			"userId":    userID,
			"productId": req.ProductID,
			"addedAt":   time.Now().UTC(),
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

// RemoveFromWishlist removes a product from the user's favorites
func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.collection().DeleteOne(queryCtx,
		bson.M{"userId": userID, "productId": productID})
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotInWishlist
	}
	return nil
}

// IsInWishlist reports whether the user has favorited the product
func (s *Service) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.collection().CountDocuments(queryCtx,
		bson.M{"userId": userID, "productId": productID})
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return count > 0, nil
}

// GetWishlistCount returns how many products the user has favorited
func (s *Service) GetWishlistCount(ctx context.Context, userID string) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.collection().CountDocuments(queryCtx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count wishlist: %w", err)
	}
	return count, nil
}

func (s *Service) collection() *mongo.Collection {
	return s.client.Collection(store.CollectionFavorites)
}
