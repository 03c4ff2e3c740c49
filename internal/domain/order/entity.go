// internal/domain/order/entity.go
package order

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusReadyToShip    OrderStatus = "ready_to_ship"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DeliveryType represents how the order reaches the customer
type DeliveryType string

const (
	DeliveryTypeHome   DeliveryType = "home_delivery"
	DeliveryTypePickup DeliveryType = "store_pickup"
)

// statusRank orders the forward-only lifecycle. Cancelled sits outside the
// chain and is reachable from any non-terminal status.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusPacked:         2,
	OrderStatusReadyToShip:    3,
	OrderStatusShipped:        4,
	OrderStatusOutForDelivery: 5,
	OrderStatusDelivered:      6,
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s OrderStatus) bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
// Transitions are monotonic forward; delivered and cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	if from == OrderStatusDelivered || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Order represents an order document. Items are a snapshot taken at checkout,
// not live references; later catalog edits never alter historical orders.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	ShippingCost    float64            `bson:"shippingCost" json:"shipping_cost"`
	Discount        float64            `bson:"discount" json:"discount"`
	CouponCode      string             `bson:"couponCode" json:"coupon_code"`
	TotalAmount     float64            `bson:"totalAmount" json:"total_amount"`
	ShippingAddress Address            `bson:"shippingAddress" json:"shipping_address"`
	DeliveryType    DeliveryType       `bson:"deliveryType" json:"delivery_type"`
	PickupTime      *time.Time         `bson:"pickupTime,omitempty" json:"pickup_time,omitempty"`
	OrderNotes      string             `bson:"orderNotes" json:"order_notes"`
	Status          OrderStatus        `bson:"status" json:"status"`
	IsProcessed     bool               `bson:"isProcessed" json:"is_processed"`
	PaymentMethod   string             `bson:"paymentMethod" json:"payment_method"` // cash, card, online, cod
	PaymentStatus   PaymentStatus      `bson:"paymentStatus" json:"payment_status"`
	TrackingNumber  string             `bson:"trackingNumber" json:"tracking_number"`

	// Timestamps per status transition
	CreatedAt   time.Time  `bson:"createdAt" json:"created_at"`
	ConfirmedAt *time.Time `bson:"confirmedAt,omitempty" json:"confirmed_at,omitempty"`
	PackedAt    *time.Time `bson:"packedAt,omitempty" json:"packed_at,omitempty"`
	ShippedAt   *time.Time `bson:"shippedAt,omitempty" json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `bson:"deliveredAt,omitempty" json:"delivered_at,omitempty"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelled_at,omitempty"`
}

// OrderItem is the immutable line-item snapshot embedded in an order. Field
// names match the cart item document so the stored shape carries over.
type OrderItem struct {
	ProductID       string  `bson:"productId" json:"product_id"`
	ProductName     string  `bson:"productName" json:"product_name"`
	ProductImageURL string  `bson:"productImageUrl" json:"product_image_url"`
	Price           float64 `bson:"price" json:"price"`
	Quantity        int     `bson:"quantity" json:"quantity"`
	SelectedSize    string  `bson:"selectedSize" json:"selected_size"`
	SelectedColor   string  `bson:"selectedColor" json:"selected_color"`
}

// Address is the shipping address embedded in an order
type Address struct {
	FullName string `bson:"fullName" json:"full_name"`
	Phone    string `bson:"phone" json:"phone"`
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	District string `bson:"district" json:"district"`
	Ward     string `bson:"ward" json:"ward"`
}

// OrderCancellation represents a customer cancellation request
type OrderCancellation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID     string             `bson:"orderId" json:"order_id"`
	UserID      string             `bson:"userId" json:"user_id"`
	Reason      string             `bson:"reason" json:"reason"`
	Status      string             `bson:"status" json:"status"` // pending, approved, rejected
	RequestedAt time.Time          `bson:"requestedAt" json:"requested_at"`
	ProcessedAt *time.Time         `bson:"processedAt,omitempty" json:"processed_at,omitempty"`
	ProcessedBy string             `bson:"processedBy" json:"processed_by"`
	AdminNotes  string             `bson:"adminNotes" json:"admin_notes"`
}

// ReturnRequest represents a customer return or exchange request
type ReturnRequest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID           string             `bson:"orderId" json:"order_id"`
	UserID            string             `bson:"userId" json:"user_id"`
	Items             []ReturnItem       `bson:"items" json:"items"`
	Reason            string             `bson:"reason" json:"reason"`
	Type              string             `bson:"type" json:"type"` // return, exchange
	ExchangeProductID string             `bson:"exchangeProductId" json:"exchange_product_id"`
	Status            string             `bson:"status" json:"status"` // pending, approved, rejected, processing, completed
	RequestedAt       time.Time          `bson:"requestedAt" json:"requested_at"`
	ProcessedAt       *time.Time         `bson:"processedAt,omitempty" json:"processed_at,omitempty"`
	ProcessedBy       string             `bson:"processedBy" json:"processed_by"`
	AdminNotes        string             `bson:"adminNotes" json:"admin_notes"`
	RefundAmount      float64            `bson:"refundAmount" json:"refund_amount"`
	TrackingNumber    string             `bson:"trackingNumber" json:"tracking_number"`
}

// ReturnItem identifies one returned line item
type ReturnItem struct {
	ProductID   string `bson:"productId" json:"product_id"`
	ProductName string `bson:"productName" json:"product_name"`
	Quantity    int    `bson:"quantity" json:"quantity"`
	Size        string `bson:"size" json:"size"`
	Color       string `bson:"color" json:"color"`
}

// Business methods for Order

// Reference returns the short order number shown to customers, derived from
// the document id so it needs no counter collection.
func (o *Order) Reference() string {
	hex := o.ID.Hex()
	if len(hex) < 8 {
		return strings.ToUpper(hex)
	}
	return strings.ToUpper(hex[len(hex)-8:])
}

// CanBeCancelled checks if the customer may still request cancellation
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// CanBeReturned checks if the order is eligible for a return request
func (o *Order) CanBeReturned() bool {
	return o.Status == OrderStatusDelivered
}

// DeliveredWithin reports whether the order was delivered within d of now
func (o *Order) DeliveredWithin(d time.Duration, now time.Time) bool {
	if o.DeliveredAt == nil {
		return false
	}
	return now.Sub(*o.DeliveredAt) <= d
}

// ContainsProduct reports whether the order includes the given product
func (o *Order) ContainsProduct(productID string) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
