// internal/domain/product/entity_test.go
package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsOptionLists(t *testing.T) {
	p := Product{Name: "Plain Tee"}
	p.ApplyDefaults()

	assert.Equal(t, DefaultSizes, p.Sizes)
	assert.Equal(t, DefaultColors, p.Colors)
}

func TestApplyDefaultsKeepsExplicitOptions(t *testing.T) {
	p := Product{
		Name:   "Sneaker",
		Sizes:  []string{"40", "41", "42"},
		Colors: []string{"Red"},
	}
	p.ApplyDefaults()

	assert.Equal(t, []string{"40", "41", "42"}, p.Sizes)
	assert.Equal(t, []string{"Red"}, p.Colors)
}

func TestStockClassification(t *testing.T) {
	assert.False(t, (&Product{Stock: 0}).IsInStock())
	assert.True(t, (&Product{Stock: 1}).IsInStock())

	assert.False(t, (&Product{Stock: 0}).IsLowStock())
	assert.True(t, (&Product{Stock: 5}).IsLowStock())
	assert.False(t, (&Product{Stock: 6}).IsLowStock())
}

func TestVariantNeedsReorder(t *testing.T) {
	assert.True(t, (&ProductVariant{Stock: 3, ReorderPoint: 3}).NeedsReorder())
	assert.True(t, (&ProductVariant{Stock: 0, ReorderPoint: 3}).NeedsReorder())
	assert.False(t, (&ProductVariant{Stock: 4, ReorderPoint: 3}).NeedsReorder())
}
