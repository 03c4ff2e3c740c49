// internal/domain/message/service.go
package message

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmptyContent is returned when a message has no content
var ErrEmptyContent = errors.New("message content cannot be empty")

// Service handles order-thread messaging
type Service struct {
	client *store.Client
	config *config.Config
}

// NewService creates a new message service
func NewService(client *store.Client, cfg *config.Config) *Service {
	return &Service{
		client: client,
		config: cfg,
	}
}

// SendMessageRequest represents a message submission
type SendMessageRequest struct {
	OrderID    string `json:"order_id" binding:"required"`
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage appends a message to an order thread
func (s *Service) SendMessage(ctx context.Context, senderID, senderName, senderRole string, req *SendMessageRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	msg := Message{
		OrderID:    req.OrderID,
		SenderID:   senderID,
		SenderName: senderName,
		SenderRole: senderRole,
		ReceiverID: req.ReceiverID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		IsRead:     false,
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.collection().InsertOne(queryCtx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return &msg, nil
}

// GetThread lists all messages of an order thread, oldest first
func (s *Service) GetThread(ctx context.Context, orderID string) ([]Message, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.collection().Find(queryCtx, bson.M{"orderId": orderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve messages: %w", err)
	}
	defer cursor.Close(queryCtx)

	var messages []Message
	if err := cursor.All(queryCtx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

// GetUnreadCount counts unread messages addressed to the user
func (s *Service) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	count, err := s.collection().CountDocuments(queryCtx,
		bson.M{"receiverId": userID, "isRead": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// MarkThreadRead marks all messages in an order thread addressed to the
// user as read
func (s *Service) MarkThreadRead(ctx context.Context, orderID, userID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	_, err := s.collection().UpdateMany(queryCtx,
		bson.M{"orderId": orderID, "receiverId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

func (s *Service) collection() *mongo.Collection {
	return s.client.Collection(store.CollectionMessages)
}
