// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
)

// InventoryHandler handles admin stock reporting
type InventoryHandler struct {
	inventoryService *inventory.Service
	config           *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(client *store.Client, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventory.NewService(client, cfg),
		config:           cfg,
	}
}

// GetStockReport handles GET /admin/inventory/report
func (h *InventoryHandler) GetStockReport(c *gin.Context) {
	report, err := h.inventoryService.GetStockReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build stock report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock report generated successfully",
		"data":    report,
	})
}

// GetLowStockProducts handles GET /admin/inventory/low-stock
func (h *InventoryHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.inventoryService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list low-stock products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Low-stock products retrieved successfully",
		"data": gin.H{
			"products": products,
			"total":    len(products),
		},
	})
}
