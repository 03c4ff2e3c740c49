// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Order errors
var (
	ErrNotFound          = errors.New("order not found")
	ErrNotOwner          = errors.New("order does not belong to this user")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrNotReturnable     = errors.New("only delivered orders can be returned")
)

// Service handles order business logic
type Service struct {
	client       *store.Client
	config       *config.Config
	logger       *logrus.Logger
	emailService *email.EmailService
}

// NewService creates a new order service
func NewService(client *store.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		client:       client,
		config:       cfg,
		logger:       logger,
		emailService: email.NewEmailService(cfg),
	}
}

// UpdateStatusRequest represents an admin status update
type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// CancellationRequest represents a customer cancellation request
type CancellationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReturnRequestInput represents a customer return request
type ReturnRequestInput struct {
	Reason string       `json:"reason" binding:"required"`
	Items  []ReturnItem `json:"items"`
}

// GetUserOrders lists a user's orders, newest first
func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]Order, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(queryCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	defer cursor.Close(queryCtx)

	var orders []Order
	if err := cursor.All(queryCtx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves a single order. When userID is non-empty the order
// must belong to that user.
func (s *Service) GetOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	objectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var o Order
	err = s.collection().FindOne(queryCtx, bson.M{"_id": objectID}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if userID != "" && o.UserID != userID {
		return nil, ErrNotOwner
	}
	return &o, nil
}

// GetOrders lists all orders, optionally filtered by status (admin)
func (s *Service) GetOrders(ctx context.Context, status string) ([]Order, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		if !IsValidStatus(OrderStatus(status)) {
			return nil, ErrInvalidStatus
		}
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(queryCtx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	defer cursor.Close(queryCtx)

	var orders []Order
	if err := cursor.All(queryCtx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status (admin). Transitions only move
// forward through the fulfilment pipeline; delivered and cancelled are
// terminal. The timestamp matching the new status is stamped.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, req *UpdateStatusRequest) (*Order, error) {
	newStatus := OrderStatus(req.Status)
	if !IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	o, err := s.GetOrder(ctx, orderID, "")
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}

	now := time.Now().UTC()
	updates := bson.M{"status": string(newStatus)}
	switch newStatus {
	case OrderStatusConfirmed:
		updates["confirmedAt"] = now
		updates["isProcessed"] = true
	case OrderStatusPacked:
		updates["packedAt"] = now
	case OrderStatusShipped:
		updates["shippedAt"] = now
	case OrderStatusDelivered:
		updates["deliveredAt"] = now
	case OrderStatusCancelled:
		updates["cancelledAt"] = now
	}
	if req.TrackingNumber != "" {
		updates["trackingNumber"] = req.TrackingNumber
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result := s.collection().FindOneAndUpdate(queryCtx,
		bson.M{"_id": o.ID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var updated Order
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	s.sendStatusUpdateEmail(ctx, &updated)

	return &updated, nil
}

// sendStatusUpdateEmail notifies the customer of the new status; failures
// are logged and never surfaced
func (s *Service) sendStatusUpdateEmail(ctx context.Context, o *Order) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return
	}

	var customer struct {
		Email string `bson:"email"`
		Name  string `bson:"name"`
	}
	err = s.client.Collection(store.CollectionUsers).
		FindOne(queryCtx, bson.M{"_id": userID}).Decode(&customer)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID.Hex()).
			Warn("Failed to look up customer for status email")
		return
	}

	data := email.OrderStatusUpdateData{
		OrderNumber:    o.Reference(),
		Status:         string(o.Status),
		StatusMessage:  statusMessage(o.Status),
		TrackingNumber: o.TrackingNumber,
	}
	data.UserName = customer.Name
	data.UserEmail = customer.Email

	if err := s.emailService.SendOrderStatusUpdateEmail(ctx, data); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID.Hex()).
			Warn("Failed to send status update email")
	}
}

// statusMessage is the customer-facing line for each fulfilment stage
func statusMessage(status OrderStatus) string {
	switch status {
	case OrderStatusConfirmed:
		return "Your order has been confirmed and is being prepared."
	case OrderStatusPacked:
		return "Your order has been packed."
	case OrderStatusReadyToShip:
		return "Your order is ready to ship."
	case OrderStatusShipped:
		return "Your order has been shipped."
	case OrderStatusOutForDelivery:
		return "Your order is out for delivery."
	case OrderStatusDelivered:
		return "Your order has been delivered. Enjoy!"
	case OrderStatusCancelled:
		return "Your order has been cancelled."
	default:
		return "Your order status has been updated."
	}
}

// RequestCancellation files a cancellation request for a pending or
// confirmed order and cancels it
func (s *Service) RequestCancellation(ctx context.Context, orderID, userID string, req *CancellationRequest) error {
	o, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if !o.CanBeCancelled() {
		return ErrNotCancellable
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	now := time.Now().UTC()
	cancellation := OrderCancellation{
		OrderID:     o.ID.Hex(),
		UserID:      userID,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      "approved",
		RequestedAt: now,
	}
	if _, err := s.client.Collection(store.CollectionCancellations).InsertOne(queryCtx, cancellation); err != nil {
		return fmt.Errorf("failed to record cancellation: %w", err)
	}

	_, err = s.collection().UpdateOne(queryCtx,
		bson.M{"_id": o.ID},
		bson.M{"$set": bson.M{
			"status":      string(OrderStatusCancelled),
			"cancelledAt": now,
		}})
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	return nil
}

// RequestReturn files a return request for a delivered order
func (s *Service) RequestReturn(ctx context.Context, orderID, userID string, req *ReturnRequestInput) (*ReturnRequest, error) {
	o, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !o.CanBeReturned() {
		return nil, ErrNotReturnable
	}

	items := req.Items
	if len(items) == 0 {
		// No explicit selection returns the whole order
		items = make([]ReturnItem, len(o.Items))
		for i, item := range o.Items {
			items[i] = ReturnItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
			}
		}
	}

	rr := ReturnRequest{
		OrderID:      o.ID.Hex(),
		UserID:       userID,
		Items:        items,
		Reason:       strings.TrimSpace(req.Reason),
		Type:         "return",
		Status:       "pending",
		RefundAmount: o.TotalAmount,
		RequestedAt:  time.Now().UTC(),
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.client.Collection(store.CollectionReturnRequests).InsertOne(queryCtx, rr)
	if err != nil {
		return nil, fmt.Errorf("failed to record return request: %w", err)
	}
	rr.ID = result.InsertedID.(primitive.ObjectID)
	return &rr, nil
}

// GetReturnRequests lists return requests, all of them or one user's
func (s *Service) GetReturnRequests(ctx context.Context, userID string) ([]ReturnRequest, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["userId"] = userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "requestedAt", Value: -1}})
	cursor, err := s.client.Collection(store.CollectionReturnRequests).Find(queryCtx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve return requests: %w", err)
	}
	defer cursor.Close(queryCtx)

	var requests []ReturnRequest
	if err := cursor.All(queryCtx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode return requests: %w", err)
	}
	return requests, nil
}

func (s *Service) collection() *mongo.Collection {
	return s.client.Collection(store.CollectionOrders)
}
