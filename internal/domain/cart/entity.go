// internal/domain/cart/entity.go
package cart

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents a cart item stored for authenticated users. Product
// name, image and price are denormalized at add time so the cart keeps
// rendering even when the product later changes or disappears.
type CartItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"user_id"`
	ProductID       string             `bson:"productId" json:"product_id"`
	ProductName     string             `bson:"productName" json:"product_name"`
	ProductImageURL string             `bson:"productImageUrl" json:"product_image_url"`
	Price           float64            `bson:"price" json:"price"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	SelectedSize    string             `bson:"selectedSize,omitempty" json:"selected_size,omitempty"`
	SelectedColor   string             `bson:"selectedColor,omitempty" json:"selected_color,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updated_at"`
}

// SessionCart represents a cart for guest users, stored in Redis
type SessionCart struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SessionCartItem represents a cart item for guest users
type SessionCartItem struct {
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ProductImageURL string    `json:"product_image_url"`
	Price           float64   `json:"price"`
	Quantity        int       `json:"quantity"`
	SelectedSize    string    `json:"selected_size,omitempty"`
	SelectedColor   string    `json:"selected_color,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int     `json:"item_count"`     // Number of distinct lines
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	Total         float64 `json:"total"`          // Σ price × quantity
}

// Total sums price × quantity over the given items; an empty cart totals zero
func Total(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// SameSelection reports whether a cart line matches a product and its
// size/color selection; distinct selections stay distinct lines
func (c *CartItem) SameSelection(productID, size, color string) bool {
	return c.ProductID == productID && c.SelectedSize == size && c.SelectedColor == color
}
