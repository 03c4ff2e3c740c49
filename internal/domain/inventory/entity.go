// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/product"
)

// StockLevel classifies how urgently a product needs attention
type StockLevel string

const (
	StockLevelOK      StockLevel = "ok"
	StockLevelLow     StockLevel = "low"
	StockLevelOut     StockLevel = "out_of_stock"
	StockLevelReorder StockLevel = "reorder"
)

// StockAlert flags one product or variant that needs restocking
type StockAlert struct {
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name"`
	VariantID   string     `json:"variant_id,omitempty"`
	SKU         string     `json:"sku,omitempty"`
	Size        string     `json:"size,omitempty"`
	Color       string     `json:"color,omitempty"`
	Stock       int        `json:"stock"`
	Level       StockLevel `json:"level"`
}

// StockReport summarizes catalog stock health for the admin dashboard
type StockReport struct {
	TotalProducts   int          `json:"total_products"`
	InStock         int          `json:"in_stock"`
	LowStock        int          `json:"low_stock"`
	OutOfStock      int          `json:"out_of_stock"`
	ReorderVariants int          `json:"reorder_variants"`
	Alerts          []StockAlert `json:"alerts"`
	GeneratedAt     time.Time    `json:"generated_at"`
}

// ClassifyProduct maps a product's stock count to an alert level.
// Returns StockLevelOK when no alert is warranted.
func ClassifyProduct(p *product.Product) StockLevel {
	switch {
	case p.Stock <= 0:
		return StockLevelOut
	case p.IsLowStock():
		return StockLevelLow
	default:
		return StockLevelOK
	}
}

// ClassifyVariant maps a variant's stock against its reorder point
func ClassifyVariant(v *product.ProductVariant) StockLevel {
	switch {
	case v.Stock <= 0:
		return StockLevelOut
	case v.NeedsReorder():
		return StockLevelReorder
	default:
		return StockLevelOK
	}
}
