// internal/domain/product/review_dto.go
package product

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review represents a product review document
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID  string             `bson:"productId" json:"product_id"`
	UserID     string             `bson:"userId" json:"user_id"`
	UserName   string             `bson:"userName" json:"user_name"`
	Rating     float64            `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment" json:"comment"`
	AdminReply string             `bson:"adminReply,omitempty" json:"admin_reply,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
}

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Rating    float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment"`
}

// ReplyReviewRequest represents an admin reply to a review
type ReplyReviewRequest struct {
	Reply string `json:"reply" binding:"required"`
}
