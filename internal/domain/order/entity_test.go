package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionMovesForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusPacked))
	assert.True(t, CanTransition(OrderStatusPacked, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))

	// Skipping intermediate stages forward is allowed
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusDelivered))

	// Never backwards
	assert.False(t, CanTransition(OrderStatusConfirmed, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusPacked))
}

func TestCanTransitionTerminalStates(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusConfirmed))
}

func TestCanTransitionToCancelled(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusCancelled))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(OrderStatusPending))
	assert.True(t, IsValidStatus(OrderStatusOutForDelivery))
	assert.False(t, IsValidStatus(OrderStatus("refunded")))
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).CanBeCancelled())
	assert.True(t, (&Order{Status: OrderStatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusShipped}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusDelivered}).CanBeCancelled())
}

func TestDeliveredWithin(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	recent := now.Add(-6 * 24 * time.Hour)
	boundary := now.Add(-7 * 24 * time.Hour)
	tooOld := now.Add(-8 * 24 * time.Hour)
	window := 7 * 24 * time.Hour

	assert.True(t, (&Order{DeliveredAt: &recent}).DeliveredWithin(window, now))
	assert.True(t, (&Order{DeliveredAt: &boundary}).DeliveredWithin(window, now))
	assert.False(t, (&Order{DeliveredAt: &tooOld}).DeliveredWithin(window, now))
	assert.False(t, (&Order{}).DeliveredWithin(window, now))
}

func TestContainsProduct(t *testing.T) {
	o := Order{Items: []OrderItem{{ProductID: "p1"}, {ProductID: "p2"}}}
	assert.True(t, o.ContainsProduct("p2"))
	assert.False(t, o.ContainsProduct("p3"))
}
