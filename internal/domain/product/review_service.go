// internal/domain/product/review_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Review eligibility errors, mapped to 4xx responses by the handler
var (
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrNotEligible     = errors.New("reviews are only allowed within 7 days of delivery")
	ErrReviewNotFound  = errors.New("review not found")
)

// reviewWindow is how long after delivery a purchase can still be reviewed
const reviewWindow = 7 * 24 * time.Hour

// ReviewService handles review business logic
type ReviewService struct {
	client *store.Client
	config *config.Config
}

// NewReviewService creates a new review service
func NewReviewService(client *store.Client, cfg *config.Config) *ReviewService {
	return &ReviewService{
		client: client,
		config: cfg,
	}
}

// CanReview reports whether the user may review the product: a delivered
// order of theirs must contain the product, delivered within the review
// window, and they must not have reviewed it before.
func (s *ReviewService) CanReview(ctx context.Context, userID, productID string) (bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.reviews().CountDocuments(queryCtx, bson.M{
		"userId":    userID,
		"productId": productID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	return s.hasRecentDelivery(queryCtx, userID, productID)
}

// CreateReview creates a review and recomputes the product's rating aggregate
func (s *ReviewService) CreateReview(ctx context.Context, userID, userName string, req *CreateReviewRequest) (*Review, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.reviews().CountDocuments(queryCtx, bson.M{
		"userId":    userID,
		"productId": req.ProductID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyReviewed
	}

	eligible, err := s.hasRecentDelivery(queryCtx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	review := Review{
		ProductID: req.ProductID,
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.reviews().InsertOne(queryCtx, review)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.ID = result.InsertedID.(primitive.ObjectID)

	if err := s.recomputeProductRating(queryCtx, req.ProductID); err != nil {
		return nil, err
	}

	return &review, nil
}

// GetProductReviews lists reviews for a product, newest first
func (s *ReviewService) GetProductReviews(ctx context.Context, productID string) ([]Review, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.reviews().Find(queryCtx, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	defer cursor.Close(queryCtx)

	var reviews []Review
	if err := cursor.All(queryCtx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// GetAllReviews lists every review, newest first (admin)
func (s *ReviewService) GetAllReviews(ctx context.Context) ([]Review, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.reviews().Find(queryCtx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	defer cursor.Close(queryCtx)

	var reviews []Review
	if err := cursor.All(queryCtx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// ReplyToReview sets the admin reply on a review
func (s *ReviewService) ReplyToReview(ctx context.Context, reviewID string, reply string) error {
	objectID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return ErrReviewNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.reviews().UpdateOne(queryCtx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"adminReply": strings.TrimSpace(reply)}})
	if err != nil {
		return fmt.Errorf("failed to reply to review: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// DeleteReview removes a review and recomputes the product aggregate (admin)
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string) error {
	objectID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return ErrReviewNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var review Review
	err = s.reviews().FindOneAndDelete(queryCtx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return s.recomputeProductRating(queryCtx, review.ProductID)
}

// hasRecentDelivery checks for a delivered order containing the product
// within the review window
func (s *ReviewService) hasRecentDelivery(ctx context.Context, userID, productID string) (bool, error) {
	cursor, err := s.client.Collection(store.CollectionOrders).Find(ctx, bson.M{
		"userId":          userID,
		"status":          string(order.OrderStatusDelivered),
		"items.productId": productID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check delivered orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []order.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return false, fmt.Errorf("failed to decode orders: %w", err)
	}

	now := time.Now().UTC()
	for _, o := range orders {
		if o.DeliveredWithin(reviewWindow, now) {
			return true, nil
		}
	}
	return false, nil
}

// recomputeProductRating recalculates rating as the mean of all review
// ratings rather than adjusting incrementally, so deletes stay consistent
func (s *ReviewService) recomputeProductRating(ctx context.Context, productID string) error {
	cursor, err := s.reviews().Find(ctx, bson.M{"productId": productID})
	if err != nil {
		return fmt.Errorf("failed to load reviews for aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return fmt.Errorf("failed to decode reviews for aggregate: %w", err)
	}

	rating := 0.0
	if len(reviews) > 0 {
		sum := 0.0
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = sum / float64(len(reviews))
	}

	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		// Orphaned reviews for an unknown product id: nothing to update
		return nil
	}

	_, err = s.client.Collection(store.CollectionProducts).UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"rating":      rating,
			"reviewCount": len(reviews),
			"updatedAt":   time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	return nil
}

func (s *ReviewService) reviews() *mongo.Collection {
	return s.client.Collection(store.CollectionReviews)
}
