// internal/domain/catalog/view.go
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

// Source supplies the raw collections the projection is derived from
type Source interface {
	ActiveProducts(ctx context.Context) ([]product.Product, error)
	DeliveredOrders(ctx context.Context) ([]order.Order, error)
}

// Snapshot is the derived catalog state served to shoppers. It is rebuilt as a
// whole on every change event, so redelivery of the same event is idempotent.
type Snapshot struct {
	Products    []product.Product `json:"products"`
	NewArrivals []product.Product `json:"new_arrivals"`
	BestSellers []product.Product `json:"best_sellers"`
	Facets      Facets            `json:"facets"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// View owns the current catalog snapshot. Change notifications from the
// document store are funneled through a single channel consumed by one
// reducer goroutine; readers only ever see a complete snapshot. The reducer
// is the single writer, so there is no shared mutable state beyond the
// guarded snapshot itself.
type View struct {
	source      Source
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client // optional snapshot cache

	events chan string

	mu      sync.RWMutex
	current Snapshot
}

const viewCacheKey = "catalog:view"

// NewView creates a catalog view over the given source
func NewView(source Source, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *View {
	return &View{
		source:      source,
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
		// Buffered so producers never block; the reducer coalesces bursts.
		events: make(chan string, 64),
	}
}

// Notify signals that a collection changed. Safe to call from any goroutine;
// drops the event if the buffer is full because a refresh is already pending.
func (v *View) Notify(collection string) {
	select {
	case v.events <- collection:
	default:
	}
}

// Current returns the latest snapshot
func (v *View) Current() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Run computes the initial snapshot and then consumes change events until the
// context is cancelled. It is the only writer of the view state.
func (v *View) Run(ctx context.Context) {
	if err := v.refresh(ctx); err != nil {
		v.logger.WithError(err).Error("Initial catalog projection failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case collection := <-v.events:
			// Coalesce a burst of events into one recompute
			drained := v.drain()
			if err := v.refresh(ctx); err != nil {
				v.logger.WithError(err).WithField("collection", collection).
					Error("Catalog projection refresh failed")
				continue
			}
			v.logger.WithFields(logrus.Fields{
				"collection": collection,
				"coalesced":  drained,
			}).Debug("Catalog projection refreshed")
		}
	}
}

func (v *View) drain() int {
	n := 0
	for {
		select {
		case <-v.events:
			n++
		default:
			return n
		}
	}
}

// refresh re-reads the source collections and recomputes the derived lists.
// Re-reading everything on each change is acceptable for catalog-sized data.
func (v *View) refresh(ctx context.Context) error {
	products, err := v.source.ActiveProducts(ctx)
	if err != nil {
		return err
	}
	orders, err := v.source.DeliveredOrders(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	snapshot := Snapshot{
		Products:    products,
		NewArrivals: NewArrivals(products, now, v.config.Catalog.NewArrivalWindow, v.config.Catalog.ListLimit),
		BestSellers: BestSellers(products, orders, v.config.Catalog.ListLimit),
		Facets:      CollectFacets(products),
		ComputedAt:  now,
	}

	v.mu.Lock()
	v.current = snapshot
	v.mu.Unlock()

	if v.redisClient != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := v.redisClient.SetJSON(cacheCtx, viewCacheKey, snapshot, v.config.Catalog.ViewCacheTTL); err != nil {
			v.logger.WithError(err).Warn("Failed to cache catalog snapshot")
		}
	}

	return nil
}
