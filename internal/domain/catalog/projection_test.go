// internal/domain/catalog/projection_test.go
package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProduct(name string, price float64, createdAt time.Time) product.Product {
	return product.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Price:     price,
		CreatedAt: createdAt,
		IsActive:  true,
	}
}

func deliveredOrder(items ...order.OrderItem) order.Order {
	return order.Order{
		Status: order.OrderStatusDelivered,
		Items:  items,
	}
}

func TestListAllBlankFilterSortsByName(t *testing.T) {
	now := time.Now().UTC()
	products := []product.Product{
		newProduct("Chinos", 45, now),
		newProduct("Anorak", 120, now),
		newProduct("Beanie", 15, now),
	}

	result := ListAll(products, Filter{}, SortByName)

	require.Len(t, result, 3)
	assert.Equal(t, "Anorak", result[0].Name)
	assert.Equal(t, "Beanie", result[1].Name)
	assert.Equal(t, "Chinos", result[2].Name)
}

func TestListAllPriceSorting(t *testing.T) {
	now := time.Now().UTC()
	products := []product.Product{
		newProduct("A", 10, now.Add(-40*24*time.Hour)),
		newProduct("B", 20, now.Add(-2*24*time.Hour)),
	}

	desc := ListAll(products, Filter{}, SortByPriceDesc)
	require.Len(t, desc, 2)
	assert.Equal(t, "B", desc[0].Name)
	assert.Equal(t, "A", desc[1].Name)

	asc := ListAll(products, Filter{}, SortByPriceAsc)
	require.Len(t, asc, 2)
	assert.Equal(t, "A", asc[0].Name)
}

func TestListAllSortIsStableForEqualKeys(t *testing.T) {
	now := time.Now().UTC()
	products := []product.Product{
		newProduct("Zip Hoodie", 50, now),
		newProduct("Crew Sweater", 50, now),
		newProduct("Cardigan", 50, now),
	}

	result := ListAll(products, Filter{}, SortByPriceAsc)

	require.Len(t, result, 3)
	assert.Equal(t, "Zip Hoodie", result[0].Name)
	assert.Equal(t, "Crew Sweater", result[1].Name)
	assert.Equal(t, "Cardigan", result[2].Name)
}

func TestListAllFreeTextQuery(t *testing.T) {
	now := time.Now().UTC()
	shirt := newProduct("Linen Shirt", 30, now)
	shirt.Description = "Breathable summer shirt"
	jeans := newProduct("Slim Jeans", 60, now)
	jeans.Category = "Men"

	products := []product.Product{shirt, jeans}

	assert.Len(t, ListAll(products, Filter{Query: "SHIRT"}, SortByName), 1)
	assert.Len(t, ListAll(products, Filter{Query: "breathable"}, SortByName), 1)
	assert.Len(t, ListAll(products, Filter{Query: "men"}, SortByName), 1)
	assert.Empty(t, ListAll(products, Filter{Query: "no such thing"}, SortByName))
}

func TestListAllFacetFilters(t *testing.T) {
	now := time.Now().UTC()
	tee := newProduct("Tee", 20, now)
	tee.Brand = "Northwind"
	tee.Material = "Cotton"
	tee.Sizes = []string{"S", "M"}
	tee.Colors = []string{"Black"}

	coat := newProduct("Coat", 200, now)
	coat.Brand = "Alpine"
	coat.Material = "Wool"
	coat.Sizes = []string{"L"}
	coat.Colors = []string{"Grey"}

	products := []product.Product{tee, coat}

	assert.Len(t, ListAll(products, Filter{Brand: "Northwind"}, SortByName), 1)
	assert.Len(t, ListAll(products, Filter{Material: "Wool"}, SortByName), 1)
	assert.Len(t, ListAll(products, Filter{Sizes: []string{"M", "XL"}}, SortByName), 1)
	assert.Len(t, ListAll(products, Filter{Colors: []string{"Grey"}}, SortByName), 1)
}

func TestListAllPriceRangeIsInclusive(t *testing.T) {
	now := time.Now().UTC()
	products := []product.Product{
		newProduct("Cheap", 10, now),
		newProduct("Mid", 50, now),
		newProduct("Dear", 90, now),
	}

	min, max := 10.0, 50.0
	result := ListAll(products, Filter{MinPrice: &min, MaxPrice: &max}, SortByPriceAsc)

	require.Len(t, result, 2)
	assert.Equal(t, "Cheap", result[0].Name)
	assert.Equal(t, "Mid", result[1].Name)
}

func TestNewArrivalsWindowAndLimit(t *testing.T) {
	now := time.Now().UTC()
	window := 30 * 24 * time.Hour

	old := newProduct("A", 10, now.Add(-40*24*time.Hour))
	fresh := newProduct("B", 20, now.Add(-2*24*time.Hour))
	undated := newProduct("C", 30, time.Time{})

	result := NewArrivals([]product.Product{old, fresh, undated}, now, window, 10)

	require.Len(t, result, 1)
	assert.Equal(t, "B", result[0].Name)
}

func TestNewArrivalsNewestFirstTruncated(t *testing.T) {
	now := time.Now().UTC()
	window := 30 * 24 * time.Hour

	var products []product.Product
	for i := 0; i < 15; i++ {
		products = append(products, newProduct("P", 10, now.Add(-time.Duration(i)*24*time.Hour)))
	}

	result := NewArrivals(products, now, window, 10)

	require.Len(t, result, 10)
	for i := 1; i < len(result); i++ {
		assert.False(t, result[i].CreatedAt.After(result[i-1].CreatedAt))
	}
}

func TestNewArrivalsBoundaryIsInclusive(t *testing.T) {
	now := time.Now().UTC()
	window := 30 * 24 * time.Hour
	edge := newProduct("Edge", 10, now.Add(-window))

	result := NewArrivals([]product.Product{edge}, now, window, 10)

	require.Len(t, result, 1)
}

func TestBestSellersRanking(t *testing.T) {
	now := time.Now().UTC()
	p1 := newProduct("P1", 10, now)
	p2 := newProduct("P2", 20, now)

	orders := []order.Order{
		deliveredOrder(order.OrderItem{ProductID: p1.ID.Hex(), Quantity: 3}),
		deliveredOrder(order.OrderItem{ProductID: p2.ID.Hex(), Quantity: 5}),
	}

	result := BestSellers([]product.Product{p1, p2}, orders, 10)

	require.Len(t, result, 2)
	assert.Equal(t, "P2", result[0].Name)
	assert.Equal(t, "P1", result[1].Name)
}

func TestBestSellersIgnoresUndeliveredOrders(t *testing.T) {
	now := time.Now().UTC()
	p1 := newProduct("P1", 10, now)

	pending := order.Order{
		Status: order.OrderStatusPending,
		Items:  []order.OrderItem{{ProductID: p1.ID.Hex(), Quantity: 9}},
	}

	assert.Empty(t, BestSellers([]product.Product{p1}, []order.Order{pending}, 10))
}

func TestBestSellersSkipsRemovedProducts(t *testing.T) {
	now := time.Now().UTC()
	p1 := newProduct("P1", 10, now)
	removed := primitive.NewObjectID().Hex()

	orders := []order.Order{
		deliveredOrder(
			order.OrderItem{ProductID: removed, Quantity: 50},
			order.OrderItem{ProductID: p1.ID.Hex(), Quantity: 1},
		),
	}

	result := BestSellers([]product.Product{p1}, orders, 10)

	require.Len(t, result, 1)
	assert.Equal(t, "P1", result[0].Name)
}

func TestBestSellersTieBreakIsDeterministic(t *testing.T) {
	now := time.Now().UTC()
	p1 := newProduct("P1", 10, now)
	p2 := newProduct("P2", 20, now)

	orders := []order.Order{
		deliveredOrder(order.OrderItem{ProductID: p1.ID.Hex(), Quantity: 4}),
		deliveredOrder(order.OrderItem{ProductID: p2.ID.Hex(), Quantity: 4}),
	}

	first := BestSellers([]product.Product{p1, p2}, orders, 10)
	for i := 0; i < 10; i++ {
		again := BestSellers([]product.Product{p1, p2}, orders, 10)
		require.Equal(t, first, again)
	}
}

func TestSalesTotalsTreatsNegativeQuantityAsZero(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	orders := []order.Order{
		deliveredOrder(
			order.OrderItem{ProductID: id, Quantity: -3},
			order.OrderItem{ProductID: id, Quantity: 2},
		),
	}

	totals := SalesTotals(orders)

	assert.Equal(t, 2, totals[id])
}

func TestSalesTotalsMatchesManualRecount(t *testing.T) {
	a := primitive.NewObjectID().Hex()
	b := primitive.NewObjectID().Hex()

	orders := []order.Order{
		deliveredOrder(order.OrderItem{ProductID: a, Quantity: 2}, order.OrderItem{ProductID: b, Quantity: 1}),
		deliveredOrder(order.OrderItem{ProductID: a, Quantity: 3}),
		deliveredOrder(order.OrderItem{ProductID: b, Quantity: 4}),
	}

	totals := SalesTotals(orders)

	assert.Equal(t, 5, totals[a])
	assert.Equal(t, 5, totals[b])
}

func TestCollectFacets(t *testing.T) {
	now := time.Now().UTC()

	tee := newProduct("Tee", 20, now)
	tee.Category = "Men"
	tee.Brand = "Northwind"
	tee.Material = "Cotton"
	tee.Sizes = []string{"S", "M"}
	tee.Colors = []string{"Black"}

	dress := newProduct("Dress", 80, now)
	dress.Category = "Women"
	dress.Brand = "Northwind"
	dress.Material = ""
	dress.Sizes = []string{"M"}
	dress.Colors = []string{"Red", "Black"}

	facets := CollectFacets([]product.Product{tee, dress})

	assert.Equal(t, []string{"Men", "Women"}, facets.Categories)
	assert.Equal(t, []string{"Northwind"}, facets.Brands)
	assert.Equal(t, []string{"Cotton"}, facets.Materials)
	assert.Equal(t, []string{"S", "M"}, facets.Sizes)
	assert.Equal(t, []string{"Black", "Red"}, facets.Colors)
}
