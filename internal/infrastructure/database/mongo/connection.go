// internal/infrastructure/database/mongo/connection.go
package mongo

import (
	"context"
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the application. The document store owns every
// entity; the application holds only transient in-memory copies.
const (
	CollectionProducts        = "products"
	CollectionProductVariants = "product_variants"
	CollectionOrders          = "orders"
	CollectionUsers           = "users"
	CollectionReviews         = "reviews"
	CollectionFavorites       = "favorites"
	CollectionAddresses       = "addresses"
	CollectionMessages        = "messages"
	CollectionCart            = "cart"
	CollectionCoupons         = "coupons"
	CollectionReturnRequests  = "return_requests"
	CollectionCancellations   = "order_cancellations"
	CollectionPasswordResets  = "password_resets"
)

// Client wraps the document store client
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	config *config.Config
}

// NewConnection creates a new document store connection
func NewConnection(cfg *config.Config) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(cfg.Mongo.ConnectTimeout).
		SetMaxPoolSize(cfg.Mongo.MaxPoolSize).
		SetMinPoolSize(cfg.Mongo.MinPoolSize)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	log.Println("✅ Document store connection established successfully")

	return &Client{
		client: client,
		db:     client.Database(cfg.Mongo.Database),
		config: cfg,
	}, nil
}

// Close closes the document store connection
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Mongo.ConnectTimeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// Database returns the database handle
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Collection returns a collection handle by name
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Health checks the document store connection health
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Mongo.QueryTimeout)
	defer cancel()
	return c.client.Ping(ctx, readpref.Primary())
}
