// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/analytics"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
)

// AnalyticsHandler handles the admin dashboard statistics
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(client *store.Client, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(client, cfg),
		config:           cfg,
	}
}

// GetDashboardStats handles GET /admin/analytics/dashboard
func (h *AnalyticsHandler) GetDashboardStats(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}

	stats, err := h.analyticsService.GetDashboardStats(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard statistics retrieved successfully",
		"data":    stats,
	})
}

// GetTopProducts handles GET /admin/analytics/top-products
func (h *AnalyticsHandler) GetTopProducts(c *gin.Context) {
	limit := parseLimit(c, 10)

	products, err := h.analyticsService.TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Top products retrieved successfully",
		"data":    products,
	})
}
