// internal/domain/catalog/projection.go
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// SortKey selects the ordering of a product listing
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceAsc  SortKey = "price_asc"
	SortByPriceDesc SortKey = "price_desc"
)

// Filter describes the faceted filter a shopper can apply to the catalog.
// Zero values mean "no constraint".
type Filter struct {
	Query    string   `json:"query" form:"q"`
	Category string   `json:"category" form:"category"`
	Brand    string   `json:"brand" form:"brand"`
	Material string   `json:"material" form:"material"`
	Sizes    []string `json:"sizes" form:"sizes"`
	Colors   []string `json:"colors" form:"colors"`
	MinPrice *float64 `json:"min_price" form:"min_price"`
	MaxPrice *float64 `json:"max_price" form:"max_price"`
}

// Facets holds the distinct non-blank attribute values observed across the
// catalog, in discovery order. Used to build filter choices.
type Facets struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	Materials  []string `json:"materials"`
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
}

// ListAll returns the products matching the filter, sorted by the given key.
// The sort is stable for equal keys. No matches yields an empty list.
func ListAll(products []product.Product, filter Filter, sortBy SortKey) []product.Product {
	matched := make([]product.Product, 0, len(products))
	for _, p := range products {
		if filter.Matches(&p) {
			matched = append(matched, p)
		}
	}

	switch sortBy {
	case SortByPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortByPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case SortByName:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	return matched
}

// Matches reports whether a product satisfies every constraint of the filter
func (f *Filter) Matches(p *product.Product) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category + " " + p.Type)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.Material != "" && p.Material != f.Material {
		return false
	}
	if len(f.Sizes) > 0 && !intersects(p.Sizes, f.Sizes) {
		return false
	}
	if len(f.Colors) > 0 && !intersects(p.Colors, f.Colors) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// NewArrivals returns up to limit products whose createdAt falls within the
// window ending at now, newest first. Products without a createdAt are
// excluded.
func NewArrivals(products []product.Product, now time.Time, window time.Duration, limit int) []product.Product {
	recent := make([]product.Product, 0, limit)
	for _, p := range products {
		if p.CreatedAt.IsZero() {
			continue
		}
		if now.Sub(p.CreatedAt) > window {
			continue
		}
		recent = append(recent, p)
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// SalesTotals sums ordered quantities per product id across delivered orders.
// Negative quantities from partially-written records contribute zero.
func SalesTotals(orders []order.Order) map[string]int {
	totals := make(map[string]int)
	for _, o := range orders {
		if o.Status != order.OrderStatusDelivered {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == "" || item.Quantity <= 0 {
				continue
			}
			totals[item.ProductID] += item.Quantity
		}
	}
	return totals
}

// BestSellers ranks catalog products by total quantity sold across delivered
// orders, highest first, ties broken by product id so the ranking is
// deterministic. Ids no longer present in the catalog are skipped. Returns at
// most limit products.
func BestSellers(products []product.Product, orders []order.Order, limit int) []product.Product {
	totals := SalesTotals(orders)
	if len(totals) == 0 {
		return []product.Product{}
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if totals[ids[i]] != totals[ids[j]] {
			return totals[ids[i]] > totals[ids[j]]
		}
		return ids[i] < ids[j]
	})

	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}

	ranked := make([]product.Product, 0, limit)
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		ranked = append(ranked, p)
		if len(ranked) == limit {
			break
		}
	}
	return ranked
}

// CollectFacets gathers the distinct non-blank attribute values across all
// products, preserving discovery order.
func CollectFacets(products []product.Product) Facets {
	var f Facets
	seenCategory := make(map[string]bool)
	seenBrand := make(map[string]bool)
	seenMaterial := make(map[string]bool)
	seenSize := make(map[string]bool)
	seenColor := make(map[string]bool)

	for _, p := range products {
		f.Categories = appendDistinct(f.Categories, seenCategory, p.Category)
		f.Brands = appendDistinct(f.Brands, seenBrand, p.Brand)
		f.Materials = appendDistinct(f.Materials, seenMaterial, p.Material)
		for _, s := range p.Sizes {
			f.Sizes = appendDistinct(f.Sizes, seenSize, s)
		}
		for _, c := range p.Colors {
			f.Colors = appendDistinct(f.Colors, seenColor, c)
		}
	}
	return f
}

func appendDistinct(values []string, seen map[string]bool, v string) []string {
	if strings.TrimSpace(v) == "" || seen[v] {
		return values
	}
	seen[v] = true
	return append(values, v)
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
