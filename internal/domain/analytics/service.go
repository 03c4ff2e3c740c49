// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service computes admin statistics with aggregation pipelines
type Service struct {
	client *store.Client
	config *config.Config
}

// NewService creates a new analytics service
func NewService(client *store.Client, cfg *config.Config) *Service {
	return &Service{
		client: client,
		config: cfg,
	}
}

// DashboardStats represents the admin dashboard summary
type DashboardStats struct {
	TotalOrders     int64              `json:"total_orders"`
	PendingOrders   int64              `json:"pending_orders"`
	DeliveredOrders int64              `json:"delivered_orders"`
	CancelledOrders int64              `json:"cancelled_orders"`
	TotalRevenue    float64            `json:"total_revenue"`
	TotalCustomers  int64              `json:"total_customers"`
	TotalProducts   int64              `json:"total_products"`
	OrdersByStatus  []StatusCount      `json:"orders_by_status"`
	RevenueByDay    []DailyRevenue     `json:"revenue_by_day"`
	TopProducts     []ProductSalesStat `json:"top_products"`
}

// StatusCount counts orders in one status
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// DailyRevenue is revenue summed per day over delivered orders
type DailyRevenue struct {
	Date    string  `bson:"_id" json:"date"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Orders  int64   `bson:"orders" json:"orders"`
}

// ProductSalesStat is total quantity sold for one product
type ProductSalesStat struct {
	ProductID   string  `bson:"_id" json:"product_id"`
	ProductName string  `bson:"productName" json:"product_name"`
	Quantity    int64   `bson:"quantity" json:"quantity"`
	Revenue     float64 `bson:"revenue" json:"revenue"`
}

// GetDashboardStats assembles the admin dashboard
func (s *Service) GetDashboardStats(ctx context.Context, days int) (*DashboardStats, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	orders := s.client.Collection(store.CollectionOrders)
	stats := &DashboardStats{}
	var err error

	stats.TotalOrders, err = orders.CountDocuments(queryCtx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	stats.PendingOrders, _ = orders.CountDocuments(queryCtx, bson.M{"status": string(order.OrderStatusPending)})
	stats.DeliveredOrders, _ = orders.CountDocuments(queryCtx, bson.M{"status": string(order.OrderStatusDelivered)})
	stats.CancelledOrders, _ = orders.CountDocuments(queryCtx, bson.M{"status": string(order.OrderStatusCancelled)})

	stats.TotalCustomers, _ = s.client.Collection(store.CollectionUsers).
		CountDocuments(queryCtx, bson.M{"role": "user"})
	stats.TotalProducts, _ = s.client.Collection(store.CollectionProducts).
		CountDocuments(queryCtx, bson.M{"isActive": true})

	stats.TotalRevenue, err = s.totalRevenue(queryCtx)
	if err != nil {
		return nil, err
	}

	stats.OrdersByStatus, err = s.ordersByStatus(queryCtx)
	if err != nil {
		return nil, err
	}

	stats.RevenueByDay, err = s.revenueByDay(queryCtx, days)
	if err != nil {
		return nil, err
	}

	stats.TopProducts, err = s.TopProducts(ctx, 10)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// TopProducts ranks products by quantity sold across delivered orders
func (s *Service) TopProducts(ctx context.Context, limit int) ([]ProductSalesStat, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Mongo.QueryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": string(order.OrderStatusDelivered)}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$items.productId",
			"productName": bson.M{"$first": "$items.productName"},
			"quantity":    bson.M{"$sum": "$items.quantity"},
			"revenue": bson.M{"$sum": bson.M{
				"$multiply": []interface{}{"$items.price", "$items.quantity"},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "quantity", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := s.client.Collection(store.CollectionOrders).Aggregate(queryCtx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top products: %w", err)
	}
	defer cursor.Close(queryCtx)

	var results []ProductSalesStat
	if err := cursor.All(queryCtx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode top products: %w", err)
	}
	return results, nil
}

func (s *Service) totalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": string(order.OrderStatusDelivered)}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalAmount"},
		}}},
	}

	cursor, err := s.client.Collection(store.CollectionOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	total, _ := results[0]["total"].(float64)
	return total, nil
}

func (s *Service) ordersByStatus(ctx context.Context) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.client.Collection(store.CollectionOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order statuses: %w", err)
	}
	defer cursor.Close(ctx)

	var results []StatusCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode order statuses: %w", err)
	}
	return results, nil
}

func (s *Service) revenueByDay(ctx context.Context, days int) ([]DailyRevenue, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":    string(order.OrderStatusDelivered),
			"createdAt": bson.M{"$gte": since},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"revenue": bson.M{"$sum": "$totalAmount"},
			"orders":  bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.client.Collection(store.CollectionOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var results []DailyRevenue
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode daily revenue: %w", err)
	}
	return results, nil
}
