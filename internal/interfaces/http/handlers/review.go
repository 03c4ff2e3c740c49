// internal/interfaces/http/handlers/review.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	reviewService *product.ReviewService
	userService   *user.Service
	config        *config.Config
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(client *store.Client, cfg *config.Config, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: product.NewReviewService(client, cfg),
		userService:   user.NewService(client, cfg, logger),
		config:        cfg,
	}
}

// GetProductReviews handles GET /products/:id/reviews
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetProductReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data": gin.H{
			"reviews": reviews,
			"total":   len(reviews),
		},
	})
}

// CanReview handles GET /products/:id/reviews/eligibility
func (h *ReviewHandler) CanReview(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eligible, err := h.reviewService.CanReview(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check review eligibility"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Eligibility checked successfully",
		"data":    gin.H{"can_review": eligible},
	})
}

// CreateReview handles POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req product.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userName := h.reviewerName(c, userID)

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, userName, &req)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
		case errors.Is(err, product.ErrNotEligible):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only customers with a recent delivered order can review this product"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted successfully",
		"data":    review,
	})
}

// Admin endpoints

// GetAllReviews handles GET /admin/reviews
func (h *ReviewHandler) GetAllReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetAllReviews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data": gin.H{
			"reviews": reviews,
			"total":   len(reviews),
		},
	})
}

// ReplyToReview handles POST /admin/reviews/:id/reply
func (h *ReviewHandler) ReplyToReview(c *gin.Context) {
	var req product.ReplyReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.reviewService.ReplyToReview(c.Request.Context(), c.Param("id"), req.Reply); err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reply to review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reply saved successfully",
	})
}

// DeleteReview handles DELETE /admin/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// reviewerName looks up the display name for the review author. Falls back to
// "Customer" so a profile hiccup never blocks a review.
func (h *ReviewHandler) reviewerName(c *gin.Context, userID string) string {
	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil || profile.Name == "" {
		return "Customer"
	}
	return profile.Name
}
