// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service builds stock reports for the admin dashboard. Stock itself lives on
// product and variant documents; this service only reads and classifies.
type Service struct {
	client *store.Client
	config *config.Config
}

// NewService creates a new inventory service
func NewService(client *store.Client, cfg *config.Config) *Service {
	return &Service{
		client: client,
		config: cfg,
	}
}

// GetStockReport scans active products and variants and collects alerts
func (s *Service) GetStockReport(ctx context.Context) (*StockReport, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	cursor, err := s.client.Collection(store.CollectionProducts).Find(queryCtx,
		bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(queryCtx)

	var products []product.Product
	if err := cursor.All(queryCtx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	report := &StockReport{
		TotalProducts: len(products),
		Alerts:        []StockAlert{},
		GeneratedAt:   time.Now().UTC(),
	}

	for i := range products {
		p := &products[i]
		switch ClassifyProduct(p) {
		case StockLevelOut:
			report.OutOfStock++
			report.Alerts = append(report.Alerts, StockAlert{
				ProductID:   p.ID.Hex(),
				ProductName: p.Name,
				Stock:       p.Stock,
				Level:       StockLevelOut,
			})
		case StockLevelLow:
			report.LowStock++
			report.Alerts = append(report.Alerts, StockAlert{
				ProductID:   p.ID.Hex(),
				ProductName: p.Name,
				Stock:       p.Stock,
				Level:       StockLevelLow,
			})
		default:
			report.InStock++
		}
	}

	variantAlerts, err := s.variantAlerts(ctx, products)
	if err != nil {
		return nil, err
	}
	report.ReorderVariants = len(variantAlerts)
	report.Alerts = append(report.Alerts, variantAlerts...)

	return report, nil
}

// GetLowStockProducts lists active products at or below the low-stock level
func (s *Service) GetLowStockProducts(ctx context.Context) ([]product.Product, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	cursor, err := s.client.Collection(store.CollectionProducts).Find(queryCtx,
		bson.M{
			"isActive": true,
			"stock":    bson.M{"$lte": 5},
		},
		options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	defer cursor.Close(queryCtx)

	var products []product.Product
	if err := cursor.All(queryCtx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode low-stock products: %w", err)
	}
	return products, nil
}

// variantAlerts flags active variants that hit their reorder point
func (s *Service) variantAlerts(ctx context.Context, products []product.Product) ([]StockAlert, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	names := make(map[string]string, len(products))
	for i := range products {
		names[products[i].ID.Hex()] = products[i].Name
	}

	cursor, err := s.client.Collection(store.CollectionProductVariants).Find(queryCtx,
		bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer cursor.Close(queryCtx)

	var variants []product.ProductVariant
	if err := cursor.All(queryCtx, &variants); err != nil {
		return nil, fmt.Errorf("failed to decode variants: %w", err)
	}

	var alerts []StockAlert
	for i := range variants {
		v := &variants[i]
		level := ClassifyVariant(v)
		if level == StockLevelOK {
			continue
		}
		alerts = append(alerts, StockAlert{
			ProductID:   v.ProductID,
			ProductName: names[v.ProductID],
			VariantID:   v.ID.Hex(),
			SKU:         v.SKU,
			Size:        v.Size,
			Color:       v.Color,
			Stock:       v.Stock,
			Level:       level,
		})
	}
	return alerts, nil
}
