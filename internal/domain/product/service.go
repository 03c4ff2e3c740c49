// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a product does not exist
var ErrNotFound = errors.New("product not found")

// Service handles product business logic
type Service struct {
	client *store.Client
	config *config.Config
}

// NewService creates a new product service
func NewService(client *store.Client, cfg *config.Config) *Service {
	return &Service{
		client: client,
		config: cfg,
	}
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Type        string   `json:"type"`
	Category    string   `json:"category" binding:"required"`
	SubCategory string   `json:"sub_category"`
	Brand       string   `json:"brand"`
	Material    string   `json:"material"`
	ImageURL    string   `json:"image_url"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Stock       int      `json:"stock" binding:"min=0"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price"`
	Type        *string   `json:"type"`
	Category    *string   `json:"category"`
	SubCategory *string   `json:"sub_category"`
	Brand       *string   `json:"brand"`
	Material    *string   `json:"material"`
	ImageURL    *string   `json:"image_url"`
	Images      *[]string `json:"images"`
	Description *string   `json:"description"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
	Stock       *int      `json:"stock"`
	Tags        *[]string `json:"tags"`
	IsActive    *bool     `json:"is_active"`
}

// GetProduct retrieves a single product by id
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	var p Product
	err = s.collection().FindOne(queryCtx, bson.M{"_id": objectID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	return &p, nil
}

// GetProducts retrieves all products, optionally restricted to active ones
func (s *Service) GetProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	cursor, err := s.collection().Find(queryCtx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	defer cursor.Close(queryCtx)

	var products []Product
	if err := cursor.All(queryCtx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(ctx context.Context, req *ProductCreateRequest) (*Product, error) {
	now := time.Now().UTC()

	p := Product{
		Name:        req.Name,
		Price:       req.Price,
		Type:        req.Type,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Brand:       req.Brand,
		Material:    req.Material,
		ImageURL:    req.ImageURL,
		Images:      req.Images,
		Description: req.Description,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Stock:       req.Stock,
		Tags:        req.Tags,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.ApplyDefaults()

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.collection().InsertOne(queryCtx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	p.ID = result.InsertedID.(primitive.ObjectID)

	return &p, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(ctx context.Context, id string, req *ProductUpdateRequest) (*Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	updates := bson.M{"updatedAt": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.SubCategory != nil {
		updates["subCategory"] = *req.SubCategory
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Material != nil {
		updates["material"] = *req.Material
	}
	if req.ImageURL != nil {
		updates["imageUrl"] = *req.ImageURL
	}
	if req.Images != nil {
		updates["images"] = *req.Images
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Sizes != nil && len(*req.Sizes) > 0 {
		updates["sizes"] = *req.Sizes
	}
	if req.Colors != nil && len(*req.Colors) > 0 {
		updates["colors"] = *req.Colors
	}
	if req.Stock != nil && *req.Stock >= 0 {
		updates["stock"] = *req.Stock
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.IsActive != nil {
		updates["isActive"] = *req.IsActive
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result := s.collection().FindOneAndUpdate(queryCtx,
		bson.M{"_id": objectID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var p Product
	if err := result.Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &p, nil
}

// DeleteProduct removes a product from the catalog. Historical orders keep
// their item snapshots, so deletion never rewrites order history.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	result, err := s.collection().DeleteOne(queryCtx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock reduces a product's stock by quantity, clamping at zero.
// Best-effort by design: checkout tolerates a failed decrement (the order
// still stands) and the compare-and-decrement here keeps stock non-negative
// under concurrent checkouts.
func (s *Service) DecrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return nil
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	// Decrement only while enough stock remains
	result, err := s.collection().UpdateOne(queryCtx,
		bson.M{"_id": objectID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}})
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Less stock than ordered: clamp at zero rather than going negative
	_, err = s.collection().UpdateOne(queryCtx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"stock": 0}})
	if err != nil {
		return fmt.Errorf("failed to clamp stock: %w", err)
	}
	return nil
}

// GetVariants lists the active variants of a product
func (s *Service) GetVariants(ctx context.Context, productID string) ([]ProductVariant, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	cursor, err := s.client.Collection(store.CollectionProductVariants).
		Find(queryCtx, bson.M{"productId": productID, "isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve variants: %w", err)
	}
	defer cursor.Close(queryCtx)

	var variants []ProductVariant
	if err := cursor.All(queryCtx, &variants); err != nil {
		return nil, fmt.Errorf("failed to decode variants: %w", err)
	}
	return variants, nil
}

func (s *Service) collection() *mongo.Collection {
	return s.client.Collection(store.CollectionProducts)
}
