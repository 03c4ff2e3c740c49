// internal/domain/catalog/view_test.go
package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

type fakeSource struct {
	mu       sync.Mutex
	products []product.Product
	orders   []order.Order
}

func (f *fakeSource) ActiveProducts(ctx context.Context) ([]product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]product.Product(nil), f.products...), nil
}

func (f *fakeSource) DeliveredOrders(ctx context.Context) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]order.Order(nil), f.orders...), nil
}

func (f *fakeSource) setProducts(products []product.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = products
}

func testConfig() *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			NewArrivalWindow: 30 * 24 * time.Hour,
			ListLimit:        10,
			ViewCacheTTL:     time.Minute,
		},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestViewComputesInitialSnapshot(t *testing.T) {
	now := time.Now().UTC()
	source := &fakeSource{
		products: []product.Product{newProduct("Tee", 20, now)},
	}

	view := NewView(source, nil, testConfig(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go view.Run(ctx)

	require.Eventually(t, func() bool {
		return !view.Current().ComputedAt.IsZero()
	}, time.Second, 10*time.Millisecond)

	snapshot := view.Current()
	require.Len(t, snapshot.Products, 1)
	require.Len(t, snapshot.NewArrivals, 1)
	assert.Empty(t, snapshot.BestSellers)
}

func TestViewRefreshesOnNotify(t *testing.T) {
	now := time.Now().UTC()
	source := &fakeSource{
		products: []product.Product{newProduct("Tee", 20, now)},
	}

	view := NewView(source, nil, testConfig(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go view.Run(ctx)

	require.Eventually(t, func() bool {
		return len(view.Current().Products) == 1
	}, time.Second, 10*time.Millisecond)

	source.setProducts([]product.Product{
		newProduct("Tee", 20, now),
		newProduct("Cap", 15, now),
	})
	view.Notify("products")

	require.Eventually(t, func() bool {
		return len(view.Current().Products) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestViewNotifyNeverBlocks(t *testing.T) {
	source := &fakeSource{}
	view := NewView(source, nil, testConfig(), quietLogger())

	// No reducer running; a burst beyond the buffer must not deadlock
	for i := 0; i < 1000; i++ {
		view.Notify("orders")
	}
}

func TestViewRepeatedNotifyIsIdempotent(t *testing.T) {
	now := time.Now().UTC()
	source := &fakeSource{
		products: []product.Product{newProduct("Tee", 20, now)},
	}

	view := NewView(source, nil, testConfig(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go view.Run(ctx)

	require.Eventually(t, func() bool {
		return len(view.Current().Products) == 1
	}, time.Second, 10*time.Millisecond)

	before := view.Current()
	for i := 0; i < 5; i++ {
		view.Notify("products")
	}

	require.Eventually(t, func() bool {
		return view.Current().ComputedAt.After(before.ComputedAt)
	}, time.Second, 10*time.Millisecond)

	after := view.Current()
	assert.Equal(t, before.Products, after.Products)
	assert.Equal(t, before.Facets, after.Facets)
}
