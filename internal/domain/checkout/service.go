// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Checkout validation errors
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidAddress  = errors.New("shipping address requires full name, phone, street and city")
	ErrInvalidDelivery = errors.New("invalid delivery type")
)

// Service handles checkout business logic
type Service struct {
	client         *store.Client
	config         *config.Config
	logger         *logrus.Logger
	cartService    *cart.Service
	productService *product.Service
	couponService  *coupon.Service
	emailService   *email.EmailService
}

// NewService creates a new checkout service
func NewService(client *store.Client, cfg *config.Config, logger *logrus.Logger,
	cartService *cart.Service, productService *product.Service, couponService *coupon.Service) *Service {
	return &Service{
		client:         client,
		config:         cfg,
		logger:         logger,
		cartService:    cartService,
		productService: productService,
		couponService:  couponService,
		emailService:   email.NewEmailService(cfg),
	}
}

// PlaceOrderRequest represents the checkout submission
type PlaceOrderRequest struct {
	ShippingAddress order.Address `json:"shipping_address" binding:"required"`
	DeliveryType    string        `json:"delivery_type"`
	PickupTime      *time.Time    `json:"pickup_time"`
	PaymentMethod   string        `json:"payment_method"`
	CouponCode      string        `json:"coupon_code"`
	OrderNotes      string        `json:"order_notes"`
}

// CheckoutSummary previews the pricing of the current cart before placing
type CheckoutSummary struct {
	Items        []cart.CartItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
	ShippingCost float64         `json:"shipping_cost"`
	Discount     float64         `json:"discount"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	TotalAmount  float64         `json:"total_amount"`
}

// GetSummary prices the user's cart, applying a coupon code when given
func (s *Service) GetSummary(ctx context.Context, userID, couponCode string) (*CheckoutSummary, error) {
	items, err := s.cartService.GetUserItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	subtotal := cart.Total(items)
	summary := &CheckoutSummary{
		Items:       items,
		Subtotal:    subtotal,
		TotalAmount: subtotal,
	}

	if couponCode != "" {
		c, err := s.couponService.Validate(ctx, couponCode, userID, subtotal, s.itemCategories(ctx, items))
		if err != nil {
			return nil, err
		}
		summary.Discount = c.DiscountFor(subtotal)
		summary.CouponCode = c.Code
		summary.TotalAmount = subtotal - summary.Discount
	}

	return summary, nil
}

// PlaceOrder converts the user's cart into an order. The order document is
// inserted first; clearing the consumed cart lines and decrementing stock
// are best-effort follow-ups that never fail an already-placed order.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest) (*order.Order, error) {
	if err := validateAddress(&req.ShippingAddress); err != nil {
		return nil, err
	}

	deliveryType := order.DeliveryType(req.DeliveryType)
	if deliveryType == "" {
		deliveryType = order.DeliveryTypeHome
	}
	if deliveryType != order.DeliveryTypeHome && deliveryType != order.DeliveryTypePickup {
		return nil, ErrInvalidDelivery
	}

	items, err := s.cartService.GetUserItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// Snapshot cart lines by value so later product edits never touch the order
	orderItems := make([]order.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = order.OrderItem{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Price:           item.Price,
			Quantity:        item.Quantity,
			SelectedSize:    item.SelectedSize,
			SelectedColor:   item.SelectedColor,
		}
	}

	subtotal := cart.Total(items)
	discount := 0.0
	couponCode := ""
	if req.CouponCode != "" {
		c, err := s.couponService.Validate(ctx, req.CouponCode, userID, subtotal, s.itemCategories(ctx, items))
		if err != nil {
			return nil, err
		}
		discount = c.DiscountFor(subtotal)
		couponCode = c.Code
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	now := time.Now().UTC()
	o := order.Order{
		UserID:          userID,
		Items:           orderItems,
		Subtotal:        subtotal,
		ShippingCost:    0,
		Discount:        discount,
		CouponCode:      couponCode,
		TotalAmount:     subtotal - discount,
		ShippingAddress: req.ShippingAddress,
		DeliveryType:    deliveryType,
		PickupTime:      req.PickupTime,
		OrderNotes:      strings.TrimSpace(req.OrderNotes),
		Status:          order.OrderStatusPending,
		IsProcessed:     false,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   order.PaymentStatusPending,
		CreatedAt:       now,
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.client.Collection(store.CollectionOrders).InsertOne(queryCtx, o)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	o.ID = result.InsertedID.(primitive.ObjectID)

	// Best-effort follow-ups: the order stands even if these fail
	if err := s.cartService.RemoveItems(ctx, userID, items); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID.Hex()).
			Warn("Failed to clear cart after checkout")
	}
	for _, item := range orderItems {
		if err := s.productService.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"order_id":   o.ID.Hex(),
				"product_id": item.ProductID,
			}).Warn("Failed to decrement stock after checkout")
		}
	}
	if couponCode != "" {
		if err := s.couponService.RecordUsage(ctx, couponCode); err != nil {
			s.logger.WithError(err).WithField("coupon", couponCode).
				Warn("Failed to record coupon usage")
		}
	}
	s.sendConfirmationEmail(ctx, &o)

	return &o, nil
}

// sendConfirmationEmail mails the order confirmation; failures are logged
// and never surfaced to the customer
func (s *Service) sendConfirmationEmail(ctx context.Context, o *order.Order) {
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
			Warn("Failed to look up customer for confirmation email")
		return
	}

	items := make([]email.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = email.OrderItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Price * float64(item.Quantity),
			Size:     item.SelectedSize,
			Color:    item.SelectedColor,
			ImageURL: item.ProductImageURL,
		}
	}

	data := email.OrderConfirmationData{
		OrderNumber:   o.Reference(),
		OrderDate:     o.CreatedAt.Format("January 2, 2006"),
		OrderTotal:    o.TotalAmount,
		Items:         items,
		DeliveryType:  string(o.DeliveryType),
		PaymentMethod: o.PaymentMethod,
		ShippingAddress: email.Address{
			FullName: o.ShippingAddress.FullName,
			Phone:    o.ShippingAddress.Phone,
			Street:   o.ShippingAddress.Street,
			City:     o.ShippingAddress.City,
			District: o.ShippingAddress.District,
			Ward:     o.ShippingAddress.Ward,
		},
	}
	data.UserName = customer.Name
	data.UserEmail = customer.Email

	if err := s.emailService.SendOrderConfirmationEmail(ctx, data); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID.Hex()).
			Warn("Failed to send order confirmation email")
	}
}

// itemCategories resolves the distinct categories of the cart's products,
// used for coupon applicability; unknown products contribute nothing
func (s *Service) itemCategories(ctx context.Context, items []cart.CartItem) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range items {
		prod, err := s.productService.GetProduct(ctx, item.ProductID)
		if err != nil {
			continue
		}
		if prod.Category != "" && !seen[prod.Category] {
			seen[prod.Category] = true
			categories = append(categories, prod.Category)
		}
	}
	return categories
}

// validateAddress rejects checkout unless the required address fields are
// non-blank; no partial order is ever created
func validateAddress(a *order.Address) error {
	if strings.TrimSpace(a.FullName) == "" ||
		strings.TrimSpace(a.Phone) == "" ||
		strings.TrimSpace(a.Street) == "" ||
		strings.TrimSpace(a.City) == "" {
		return ErrInvalidAddress
	}
	return nil
}
