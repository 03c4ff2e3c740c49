// internal/domain/message/entity.go
package message

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sender roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Message represents one message in an order-scoped thread between a
// customer and the store
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID    string             `bson:"orderId" json:"order_id"`
	SenderID   string             `bson:"senderId" json:"sender_id"`
	SenderName string             `bson:"senderName" json:"sender_name"`
	SenderRole string             `bson:"senderRole" json:"sender_role"`
	ReceiverID string             `bson:"receiverId" json:"receiver_id"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	IsRead     bool               `bson:"isRead" json:"is_read"`
}
