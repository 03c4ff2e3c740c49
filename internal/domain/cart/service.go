// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrItemNotFound is returned when a cart line does not exist
var ErrItemNotFound = errors.New("item not found in cart")

// guestCartTTL is how long an untouched guest cart survives in Redis
const guestCartTTL = 24 * time.Hour

// Service handles cart business logic
type Service struct {
	client         *store.Client
	redisClient    *redis.Client
	productService *product.Service
	config         *config.Config
}

// NewService creates a new cart service
func NewService(client *store.Client, redisClient *redis.Client, productService *product.Service, cfg *config.Config) *Service {
	return &Service{
		client:         client,
		redisClient:    redisClient,
		productService: productService,
		config:         cfg,
	}
}

// CartResponse represents a shopping cart with items and totals
type CartResponse struct {
	SessionID string     `json:"session_id,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	Items     []CartItem `json:"items"`
	Totals    CartTotals `json:"totals"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	SelectedSize  string `json:"selected_size"`
	SelectedColor string `json:"selected_color"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// GetCart retrieves the cart for a user or a guest session
func (s *Service) GetCart(ctx context.Context, userID, sessionID string) (*CartResponse, error) {
	var items []CartItem

	if userID != "" {
		dbItems, err := s.GetUserItems(ctx, userID)
		if err != nil {
			return nil, err
		}
		items = dbItems
	} else {
		sessionCart, err := s.getGuestCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		items = make([]CartItem, len(sessionCart.Items))
		for i, item := range sessionCart.Items {
			items[i] = CartItem{
				ProductID:       item.ProductID,
				ProductName:     item.ProductName,
				ProductImageURL: item.ProductImageURL,
				Price:           item.Price,
				Quantity:        item.Quantity,
				SelectedSize:    item.SelectedSize,
				SelectedColor:   item.SelectedColor,
				CreatedAt:       item.AddedAt,
				UpdatedAt:       item.AddedAt,
			}
		}
	}

	return &CartResponse{
		SessionID: sessionID,
		UserID:    userID,
		Items:     items,
		Totals:    calculateTotals(items),
	}, nil
}

// GetUserItems returns the raw cart lines of a user, oldest first
func (s *Service) GetUserItems(ctx context.Context, userID string) ([]CartItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.collection().Find(queryCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user cart: %w", err)
	}
	defer cursor.Close(queryCtx)

	var items []CartItem
	if err := cursor.All(queryCtx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

// AddToCart adds an item to the cart, snapshotting the product's name,
// image and price at add time
func (s *Service) AddToCart(ctx context.Context, userID, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	prod, err := s.productService.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !prod.IsActive {
		return nil, fmt.Errorf("product not found or inactive")
	}
	if !prod.IsInStock() {
		return nil, fmt.Errorf("product is out of stock")
	}

	if userID != "" {
		err = s.addToUserCart(ctx, userID, prod, req)
	} else {
		err = s.addToGuestCart(ctx, sessionID, prod, req)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID, sessionID)
}

// UpdateCartItem updates the quantity of a cart line; zero removes it
func (s *Service) UpdateCartItem(ctx context.Context, userID, sessionID, productID, size, color string, quantity int) (*CartResponse, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	var err error
	if userID != "" {
		err = s.updateUserCartItem(ctx, userID, productID, size, color, quantity)
	} else {
		err = s.updateGuestCartItem(ctx, sessionID, productID, size, color, quantity)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID, sessionID)
}

// RemoveFromCart removes a cart line
func (s *Service) RemoveFromCart(ctx context.Context, userID, sessionID, productID, size, color string) (*CartResponse, error) {
	return s.UpdateCartItem(ctx, userID, sessionID, productID, size, color, 0)
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(ctx context.Context, userID, sessionID string) error {
	if userID != "" {
		queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
		defer cancel()

		_, err := s.collection().DeleteMany(queryCtx, bson.M{"userId": userID})
		if err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	}
	return s.redisClient.Del(ctx, guestCartKey(sessionID)).Err()
}

// RemoveItems deletes the given cart lines by id, used by checkout to
// consume exactly the lines that went into the order
func (s *Service) RemoveItems(ctx context.Context, userID string, items []CartItem) error {
	ids := make([]interface{}, 0, len(items))
	for _, item := range items {
		if !item.ID.IsZero() {
			ids = append(ids, item.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	_, err := s.collection().DeleteMany(queryCtx, bson.M{
		"userId": userID,
		"_id":    bson.M{"$in": ids},
	})
	if err != nil {
		return fmt.Errorf("failed to remove cart items: %w", err)
	}
	return nil
}

// GetCartItemCount returns the total quantity across the cart
func (s *Service) GetCartItemCount(ctx context.Context, userID, sessionID string) (int, error) {
	cartResponse, err := s.GetCart(ctx, userID, sessionID)
	if err != nil {
		return 0, nil
	}
	return cartResponse.Totals.TotalQuantity, nil
}

// MergeGuestCartToUser merges a guest cart into the user's cart on login
func (s *Service) MergeGuestCartToUser(ctx context.Context, userID, sessionID string) error {
	guestCart, err := s.getGuestCart(ctx, sessionID)
	if err != nil || len(guestCart.Items) == 0 {
		return nil
	}

	for _, guestItem := range guestCart.Items {
		req := &AddToCartRequest{
			ProductID:     guestItem.ProductID,
			Quantity:      guestItem.Quantity,
			SelectedSize:  guestItem.SelectedSize,
			SelectedColor: guestItem.SelectedColor,
		}
		prod, err := s.productService.GetProduct(ctx, guestItem.ProductID)
		if err != nil {
			continue // Product gone since it was added, skip the line
		}
		if err := s.addToUserCart(ctx, userID, prod, req); err != nil {
			return err
		}
	}

	return s.ClearCart(ctx, "", sessionID)
}

// Private helper methods

func (s *Service) addToUserCart(ctx context.Context, userID string, prod *product.Product, req *AddToCartRequest) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{
		"userId":        userID,
		"productId":     req.ProductID,
		"selectedSize":  req.SelectedSize,
		"selectedColor": req.SelectedColor,
	}

	var existing CartItem
	err := s.collection().FindOne(queryCtx, filter).Decode(&existing)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("failed to check cart: %w", err)
		}
		item := CartItem{
			UserID:          userID,
			ProductID:       req.ProductID,
			ProductName:     prod.Name,
			ProductImageURL: prod.ImageURL,
			Price:           prod.Price,
			Quantity:        req.Quantity,
			SelectedSize:    req.SelectedSize,
			SelectedColor:   req.SelectedColor,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if _, err := s.collection().InsertOne(queryCtx, item); err != nil {
			return fmt.Errorf("failed to add to cart: %w", err)
		}
		return nil
	}

	_, err = s.collection().UpdateOne(queryCtx,
		bson.M{"_id": existing.ID},
		bson.M{"$set": bson.M{
			"quantity":  existing.Quantity + req.Quantity,
			"price":     prod.Price, // Refresh in case the price changed
			"updatedAt": now,
		}})
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (s *Service) addToGuestCart(ctx context.Context, sessionID string, prod *product.Product, req *AddToCartRequest) error {
	sessionCart, err := s.getGuestCart(ctx, sessionID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	found := false
	for i := range sessionCart.Items {
		item := &sessionCart.Items[i]
		if item.ProductID == req.ProductID &&
			item.SelectedSize == req.SelectedSize &&
			item.SelectedColor == req.SelectedColor {
			item.Quantity += req.Quantity
			item.Price = prod.Price
			found = true
			break
		}
	}

	if !found {
		sessionCart.Items = append(sessionCart.Items, SessionCartItem{
			ProductID:       req.ProductID,
			ProductName:     prod.Name,
			ProductImageURL: prod.ImageURL,
			Price:           prod.Price,
			Quantity:        req.Quantity,
			SelectedSize:    req.SelectedSize,
			SelectedColor:   req.SelectedColor,
			AddedAt:         now,
		})
	}

	sessionCart.UpdatedAt = now
	return s.saveGuestCart(ctx, sessionID, sessionCart)
}

func (s *Service) updateUserCartItem(ctx context.Context, userID, productID, size, color string, quantity int) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	filter := bson.M{
		"userId":        userID,
		"productId":     productID,
		"selectedSize":  size,
		"selectedColor": color,
	}

	if quantity == 0 {
		result, err := s.collection().DeleteOne(queryCtx, filter)
		if err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		if result.DeletedCount == 0 {
			return ErrItemNotFound
		}
		return nil
	}

	result, err := s.collection().UpdateOne(queryCtx, filter,
		bson.M{"$set": bson.M{"quantity": quantity, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Service) updateGuestCartItem(ctx context.Context, sessionID, productID, size, color string, quantity int) error {
	sessionCart, err := s.getGuestCart(ctx, sessionID)
	if err != nil {
		return err
	}

	found := false
	for i := range sessionCart.Items {
		item := sessionCart.Items[i]
		if item.ProductID == productID && item.SelectedSize == size && item.SelectedColor == color {
			if quantity == 0 {
				sessionCart.Items = append(sessionCart.Items[:i], sessionCart.Items[i+1:]...)
			} else {
				sessionCart.Items[i].Quantity = quantity
			}
			found = true
			break
		}
	}
	if !found {
		return ErrItemNotFound
	}

	sessionCart.UpdatedAt = time.Now().UTC()
	return s.saveGuestCart(ctx, sessionID, sessionCart)
}

func (s *Service) getGuestCart(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for guest cart")
	}

	cartData, err := s.redisClient.Get(ctx, guestCartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []SessionCartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	} else if err != nil {
		return nil, err
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(cartData), &sessionCart); err != nil {
		return nil, err
	}
	return &sessionCart, nil
}

func (s *Service) saveGuestCart(ctx context.Context, sessionID string, sessionCart *SessionCart) error {
	cartData, err := json.Marshal(sessionCart)
	if err != nil {
		return err
	}
	return s.redisClient.Set(ctx, guestCartKey(sessionID), cartData, guestCartTTL).Err()
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func calculateTotals(items []CartItem) CartTotals {
	totals := CartTotals{ItemCount: len(items)}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
	}
	totals.Total = Total(items)
	return totals
}

func (s *Service) collection() *mongo.Collection {
	return s.client.Collection(store.CollectionCart)
}
