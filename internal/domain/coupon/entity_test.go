package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	open := Coupon{}
	assert.True(t, open.IsWithinWindow(now))

	active := Coupon{ValidFrom: &before, ValidUntil: &after}
	assert.True(t, active.IsWithinWindow(now))

	notYet := Coupon{ValidFrom: &after}
	assert.False(t, notYet.IsWithinWindow(now))

	expired := Coupon{ValidUntil: &before}
	assert.False(t, expired.IsWithinWindow(now))
}

func TestHasUsageLeft(t *testing.T) {
	assert.True(t, (&Coupon{UsageLimit: 0, UsageCount: 1000}).HasUsageLeft())
	assert.True(t, (&Coupon{UsageLimit: 5, UsageCount: 4}).HasUsageLeft())
	assert.False(t, (&Coupon{UsageLimit: 5, UsageCount: 5}).HasUsageLeft())
}

func TestAppliesToCategories(t *testing.T) {
	all := Coupon{}
	assert.True(t, all.AppliesToCategories([]string{"Shoes"}))

	restricted := Coupon{ApplicableCategories: []string{"Shoes", "Bags"}}
	assert.True(t, restricted.AppliesToCategories([]string{"Shirts", "Bags"}))
	assert.False(t, restricted.AppliesToCategories([]string{"Shirts"}))
}

func TestDiscountForPercentage(t *testing.T) {
	c := Coupon{Type: TypePercentage, Value: 20}
	assert.Equal(t, 20.0, c.DiscountFor(100))

	capped := Coupon{Type: TypePercentage, Value: 50, MaximumDiscount: 30}
	assert.Equal(t, 30.0, capped.DiscountFor(100))
}

func TestDiscountForFixed(t *testing.T) {
	c := Coupon{Type: TypeFixed, Value: 15}
	assert.Equal(t, 15.0, c.DiscountFor(100))

	// Never discounts below a zero total
	assert.Equal(t, 10.0, c.DiscountFor(10))
}

func TestDiscountForFreeShipping(t *testing.T) {
	c := Coupon{Type: TypeFreeShipping, Value: 100}
	assert.Equal(t, 0.0, c.DiscountFor(100))
}
