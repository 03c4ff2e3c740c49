// internal/domain/catalog/source.go
package catalog

import (
	"context"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
)

// StoreSource reads the projection inputs from the document store
type StoreSource struct {
	client *mongo.Client
	config *config.Config
}

// NewStoreSource creates a source backed by the document store
func NewStoreSource(client *mongo.Client, cfg *config.Config) *StoreSource {
	return &StoreSource{
		client: client,
		config: cfg,
	}
}

// ActiveProducts returns every active product in the catalog
func (s *StoreSource) ActiveProducts(ctx context.Context) ([]product.Product, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	cursor, err := s.client.Collection(mongo.CollectionProducts).Find(queryCtx, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	defer cursor.Close(queryCtx)

	var products []product.Product
	if err := cursor.All(queryCtx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// DeliveredOrders returns every order with status delivered
func (s *StoreSource) DeliveredOrders(ctx context.Context) ([]order.Order, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	cursor, err := s.client.Collection(mongo.CollectionOrders).Find(queryCtx, bson.M{"status": order.OrderStatusDelivered})
	if err != nil {
		return nil, fmt.Errorf("failed to read delivered orders: %w", err)
	}
	defer cursor.Close(queryCtx)

	var orders []order.Order
	if err := cursor.All(queryCtx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
