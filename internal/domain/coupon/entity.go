// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon discount types
const (
	TypePercentage   = "percentage"
	TypeFixed        = "fixed"
	TypeFreeShipping = "free_shipping"
)

// Coupon represents a discount coupon document
type Coupon struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code                 string             `bson:"code" json:"code"`
	Type                 string             `bson:"type" json:"type"`
	Value                float64            `bson:"value" json:"value"` // Percentage (0-100) or fixed amount
	MinimumOrderValue    float64            `bson:"minimumOrderValue" json:"minimum_order_value"`
	MaximumDiscount      float64            `bson:"maximumDiscount" json:"maximum_discount"` // For percentage coupons
	ValidFrom            *time.Time         `bson:"validFrom,omitempty" json:"valid_from,omitempty"`
	ValidUntil           *time.Time         `bson:"validUntil,omitempty" json:"valid_until,omitempty"`
	UsageLimit           int                `bson:"usageLimit" json:"usage_limit"` // 0 = unlimited
	UsageCount           int                `bson:"usageCount" json:"usage_count"`
	PerUserLimit         int                `bson:"perUserLimit" json:"per_user_limit"`
	IsActive             bool               `bson:"isActive" json:"is_active"`
	ApplicableCategories []string           `bson:"applicableCategories,omitempty" json:"applicable_categories,omitempty"` // Empty = all
	Description          string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt,omitempty" json:"created_at"`
}

// IsWithinWindow reports whether now falls inside the coupon's validity window
func (c *Coupon) IsWithinWindow(now time.Time) bool {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}

// HasUsageLeft reports whether the global usage limit allows another use
func (c *Coupon) HasUsageLeft() bool {
	return c.UsageLimit == 0 || c.UsageCount < c.UsageLimit
}

// AppliesToCategories reports whether the coupon covers at least one of the
// given categories; a coupon with no category restriction covers all
func (c *Coupon) AppliesToCategories(categories []string) bool {
	if len(c.ApplicableCategories) == 0 {
		return true
	}
	for _, allowed := range c.ApplicableCategories {
		for _, cat := range categories {
			if allowed == cat {
				return true
			}
		}
	}
	return false
}

// DiscountFor computes the discount the coupon grants on the given subtotal.
// Percentage discounts are capped at MaximumDiscount when one is set, and a
// discount never exceeds the subtotal.
func (c *Coupon) DiscountFor(subtotal float64) float64 {
	var discount float64
	switch c.Type {
	case TypePercentage:
		discount = subtotal * c.Value / 100
		if c.MaximumDiscount > 0 && discount > c.MaximumDiscount {
			discount = c.MaximumDiscount
		}
	case TypeFixed:
		discount = c.Value
	case TypeFreeShipping:
		discount = 0 // Applied to shipping, not the subtotal
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
