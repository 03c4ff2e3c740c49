// internal/domain/inventory/entity_test.go
package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

func TestClassifyProduct(t *testing.T) {
	assert.Equal(t, StockLevelOut, ClassifyProduct(&product.Product{Stock: 0}))
	assert.Equal(t, StockLevelLow, ClassifyProduct(&product.Product{Stock: 3}))
	assert.Equal(t, StockLevelOK, ClassifyProduct(&product.Product{Stock: 50}))
}

func TestClassifyVariant(t *testing.T) {
	assert.Equal(t, StockLevelOut, ClassifyVariant(&product.ProductVariant{Stock: 0, ReorderPoint: 5}))
	assert.Equal(t, StockLevelReorder, ClassifyVariant(&product.ProductVariant{Stock: 5, ReorderPoint: 5}))
	assert.Equal(t, StockLevelOK, ClassifyVariant(&product.ProductVariant{Stock: 6, ReorderPoint: 5}))
}
