// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/product"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
)

// ProductHandler serves the shopper-facing catalog and the admin product CRUD.
// Listing endpoints read from the in-memory catalog view; detail and admin
// endpoints go to the document store directly.
type ProductHandler struct {
	productService *product.Service
	view           *catalog.View
	config         *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(client *store.Client, view *catalog.View, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		productService: product.NewService(client, cfg),
		view:           view,
		config:         cfg,
	}
}

// GetProducts handles GET /products with optional filters and sorting
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid filter parameters",
			"details": err.Error(),
		})
		return
	}

	sortBy := catalog.SortKey(c.DefaultQuery("sort", string(catalog.SortByName)))
	switch sortBy {
	case catalog.SortByName, catalog.SortByPriceAsc, catalog.SortByPriceDesc:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort key"})
		return
	}

	snapshot := h.view.Current()
	products := catalog.ListAll(snapshot.Products, filter, sortBy)

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products":    products,
			"total":       len(products),
			"computed_at": snapshot.ComputedAt,
		},
	})
}

// GetNewArrivals handles GET /products/new-arrivals
func (h *ProductHandler) GetNewArrivals(c *gin.Context) {
	snapshot := h.view.Current()
	items := snapshot.NewArrivals
	if limit := parseLimit(c, len(items)); limit < len(items) {
		items = items[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "New arrivals retrieved successfully",
		"data": gin.H{
			"products":    items,
			"computed_at": snapshot.ComputedAt,
		},
	})
}

// GetBestSellers handles GET /products/best-sellers
func (h *ProductHandler) GetBestSellers(c *gin.Context) {
	snapshot := h.view.Current()
	items := snapshot.BestSellers
	if limit := parseLimit(c, len(items)); limit < len(items) {
		items = items[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Best sellers retrieved successfully",
		"data": gin.H{
			"products":    items,
			"computed_at": snapshot.ComputedAt,
		},
	})
}

// GetFacets handles GET /products/facets
func (h *ProductHandler) GetFacets(c *gin.Context) {
	snapshot := h.view.Current()
	c.JSON(http.StatusOK, gin.H{
		"message": "Facets retrieved successfully",
		"data":    snapshot.Facets,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	p, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// GetProductVariants handles GET /products/:id/variants
func (h *ProductHandler) GetProductVariants(c *gin.Context) {
	id := c.Param("id")

	variants, err := h.productService.GetVariants(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve variants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variants retrieved successfully",
		"data":    variants,
	})
}

// Admin endpoints

// GetAllProducts handles GET /admin/products, including inactive ones
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	products, err := h.productService.GetProducts(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products": products,
			"total":    len(products),
		},
	})
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	h.view.Notify(store.CollectionProducts)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    p,
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var req product.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	h.view.Notify(store.CollectionProducts)

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    p,
	})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	h.view.Notify(store.CollectionProducts)

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// parseLimit reads a positive "limit" query parameter with a fallback
func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
