package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalEmptyCart(t *testing.T) {
	assert.Equal(t, 0.0, Total(nil))
	assert.Equal(t, 0.0, Total([]CartItem{}))
}

func TestTotalSumsPriceTimesQuantity(t *testing.T) {
	items := []CartItem{
		{Price: 10.5, Quantity: 2},
		{Price: 3.0, Quantity: 3},
	}
	assert.Equal(t, 30.0, Total(items))
}

func TestSameSelectionDistinguishesVariants(t *testing.T) {
	item := CartItem{ProductID: "p1", SelectedSize: "M", SelectedColor: "Black"}

	assert.True(t, item.SameSelection("p1", "M", "Black"))
	assert.False(t, item.SameSelection("p1", "L", "Black"))
	assert.False(t, item.SameSelection("p1", "M", "White"))
	assert.False(t, item.SameSelection("p2", "M", "Black"))
}

func TestCalculateTotals(t *testing.T) {
	items := []CartItem{
		{Price: 5.0, Quantity: 1},
		{Price: 2.5, Quantity: 4},
	}

	totals := calculateTotals(items)

	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 5, totals.TotalQuantity)
	assert.Equal(t, 15.0, totals.Total)
}
