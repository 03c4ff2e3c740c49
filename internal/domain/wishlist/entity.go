// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite marks a product as favorited by a user; one document per
// user/product pair
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	ProductID string             `bson:"productId" json:"product_id"`
	AddedAt   time.Time          `bson:"addedAt" json:"added_at"`
}
