// internal/domain/product/entity.go
package product

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default option lists applied when a product is created without explicit
// sizes or colors. Shopper-facing filters rely on these never being empty.
var (
	DefaultSizes  = []string{"S", "M", "L", "XL"}
	DefaultColors = []string{"Black", "White", "Blue"}
)

// Product represents a product document in the store catalog
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Type        string             `bson:"type" json:"type"`
	Category    string             `bson:"category" json:"category"` // Men, Women, Kids, Accessories
	SubCategory string             `bson:"subCategory" json:"sub_category"`
	Brand       string             `bson:"brand" json:"brand"`
	Material    string             `bson:"material" json:"material"`
	ImageURL    string             `bson:"imageUrl" json:"image_url"`
	Images      []string           `bson:"images" json:"images"`
	Description string             `bson:"description" json:"description"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Colors      []string           `bson:"colors" json:"colors"`
	Stock       int                `bson:"stock" json:"stock"`
	Rating      float64            `bson:"rating" json:"rating"` // Average rating, 0-5
	ReviewCount int                `bson:"reviewCount" json:"review_count"`
	HasVariants bool               `bson:"hasVariants" json:"has_variants"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updated_at"`
	IsActive    bool               `bson:"isActive" json:"is_active"`
	Tags        []string           `bson:"tags" json:"tags"`
}

// ProductVariant represents a size/color variant with its own stock
type ProductVariant struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID    string             `bson:"productId" json:"product_id"`
	Size         string             `bson:"size" json:"size"`
	Color        string             `bson:"color" json:"color"`
	SKU          string             `bson:"sku" json:"sku"`
	Stock        int                `bson:"stock" json:"stock"`
	Price        float64            `bson:"price" json:"price"` // Override product price if set
	ImageURL     string             `bson:"imageUrl" json:"image_url"`
	IsActive     bool               `bson:"isActive" json:"is_active"`
	ReorderPoint int                `bson:"reorderPoint" json:"reorder_point"`
}

// ApplyDefaults fills in the option lists a product must always carry
func (p *Product) ApplyDefaults() {
	if len(p.Sizes) == 0 {
		p.Sizes = append([]string(nil), DefaultSizes...)
	}
	if len(p.Colors) == 0 {
		p.Colors = append([]string(nil), DefaultColors...)
	}
}

// Business methods for Product

func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

func (p *Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= 5
}

func (v *ProductVariant) NeedsReorder() bool {
	return v.Stock <= v.ReorderPoint
}
