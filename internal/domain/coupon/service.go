// internal/domain/coupon/service.go
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Coupon validation errors
var (
	ErrNotFound        = errors.New("coupon not found")
	ErrInactive        = errors.New("coupon is not active")
	ErrExpired         = errors.New("coupon is outside its validity window")
	ErrUsageExceeded   = errors.New("coupon usage limit reached")
	ErrMinimumOrder    = errors.New("order does not meet the coupon minimum")
	ErrNotApplicable   = errors.New("coupon does not apply to these products")
	ErrPerUserExceeded = errors.New("coupon already used the maximum number of times")
)

// Service handles coupon business logic
type Service struct {
	client *store.Client
	config *config.Config
}

// NewService creates a new coupon service
func NewService(client *store.Client, cfg *config.Config) *Service {
	return &Service{
		client: client,
		config: cfg,
	}
}

// CouponRequest represents coupon create/update data (admin)
type CouponRequest struct {
	Code                 string     `json:"code" binding:"required"`
	Type                 string     `json:"type" binding:"required,oneof=percentage fixed free_shipping"`
	Value                float64    `json:"value" binding:"min=0"`
	MinimumOrderValue    float64    `json:"minimum_order_value" binding:"min=0"`
	MaximumDiscount      float64    `json:"maximum_discount" binding:"min=0"`
	ValidFrom            *time.Time `json:"valid_from"`
	ValidUntil           *time.Time `json:"valid_until"`
	UsageLimit           int        `json:"usage_limit" binding:"min=0"`
	PerUserLimit         int        `json:"per_user_limit" binding:"min=0"`
	IsActive             *bool      `json:"is_active"`
	ApplicableCategories []string   `json:"applicable_categories"`
	Description          string     `json:"description"`
}

// Validate checks a coupon code against an order's subtotal, categories and
// the user's prior usage, returning the coupon when it applies
func (s *Service) Validate(ctx context.Context, code, userID string, subtotal float64, categories []string) (*Coupon, error) {
	c, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !c.IsActive {
		return nil, ErrInactive
	}
	if !c.IsWithinWindow(time.Now().UTC()) {
		return nil, ErrExpired
	}
	if !c.HasUsageLeft() {
		return nil, ErrUsageExceeded
	}
	if subtotal < c.MinimumOrderValue {
		return nil, ErrMinimumOrder
	}
	if !c.AppliesToCategories(categories) {
		return nil, ErrNotApplicable
	}

	if c.PerUserLimit > 0 && userID != "" {
		used, err := s.countUserUsage(ctx, c.Code, userID)
		if err != nil {
			return nil, err
		}
		if used >= c.PerUserLimit {
			return nil, ErrPerUserExceeded
		}
	}

	return c, nil
}

// RecordUsage increments the coupon's usage counter after an order used it
func (s *Service) RecordUsage(ctx context.Context, code string) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	_, err := s.collection().UpdateOne(queryCtx,
		bson.M{"code": normalizeCode(code)},
		bson.M{"$inc": bson.M{"usageCount": 1}})
	if err != nil {
		return fmt.Errorf("failed to record coupon usage: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its code (case-insensitive)
func (s *Service) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var c Coupon
	err := s.collection().FindOne(queryCtx, bson.M{"code": normalizeCode(code)}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}
	return &c, nil
}

// GetCoupons lists all coupons (admin)
func (s *Service) GetCoupons(ctx context.Context) ([]Coupon, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	cursor, err := s.collection().Find(queryCtx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve coupons: %w", err)
	}
	defer cursor.Close(queryCtx)

	var coupons []Coupon
	if err := cursor.All(queryCtx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}
	return coupons, nil
}

// CreateCoupon creates a coupon (admin)
func (s *Service) CreateCoupon(ctx context.Context, req *CouponRequest) (*Coupon, error) {
	c := Coupon{
		Code:                 normalizeCode(req.Code),
		Type:                 req.Type,
		Value:                req.Value,
		MinimumOrderValue:    req.MinimumOrderValue,
		MaximumDiscount:      req.MaximumDiscount,
		ValidFrom:            req.ValidFrom,
		ValidUntil:           req.ValidUntil,
		UsageLimit:           req.UsageLimit,
		PerUserLimit:         req.PerUserLimit,
		IsActive:             true,
		ApplicableCategories: req.ApplicableCategories,
		Description:          req.Description,
		CreatedAt:            time.Now().UTC(),
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.collection().InsertOne(queryCtx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	c.ID = result.InsertedID.(primitive.ObjectID)
	return &c, nil
}

// DeleteCoupon removes a coupon (admin)
func (s *Service) DeleteCoupon(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.collection().DeleteOne(queryCtx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// countUserUsage counts the user's orders that redeemed the coupon code
func (s *Service) countUserUsage(ctx context.Context, code, userID string) (int, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.client.Collection(store.CollectionOrders).CountDocuments(queryCtx, bson.M{
		"userId":     userID,
		"couponCode": code,
		"status":     bson.M{"$ne": "cancelled"},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count coupon usage: %w", err)
	}
	return int(count), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Service) collection() *mongo.Collection {
	return s.client.Collection(store.CollectionCoupons)
}
