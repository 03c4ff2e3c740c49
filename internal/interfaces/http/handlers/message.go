// internal/interfaces/http/handlers/message.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/message"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// MessageHandler handles per-order messaging between customers and admins
type MessageHandler struct {
	messageService *message.Service
	orderService   *order.Service
	userService    *user.Service
	config         *config.Config
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(client *store.Client, cfg *config.Config, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: message.NewService(client, cfg),
		orderService:   order.NewService(client, cfg, logger),
		userService:    user.NewService(client, cfg, logger),
		config:         cfg,
	}
}

// SendMessage handles POST /messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req message.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	isAdmin := middleware.IsAdminFromContext(c)
	if !h.canAccessThread(c, req.OrderID, userID, isAdmin) {
		return
	}

	senderName := "Customer"
	senderRole := message.RoleUser
	if isAdmin {
		senderName = "Support"
		senderRole = message.RoleAdmin
	}
	if profile, err := h.userService.GetProfile(c.Request.Context(), userID); err == nil && profile.Name != "" {
		senderName = profile.Name
	}

	msg, err := h.messageService.SendMessage(c.Request.Context(), userID, senderName, senderRole, &req)
	if err != nil {
		if errors.Is(err, message.ErrEmptyContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message content cannot be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    msg,
	})
}

// GetThread handles GET /messages/orders/:orderId
func (h *MessageHandler) GetThread(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID := c.Param("orderId")
	if !h.canAccessThread(c, orderID, userID, middleware.IsAdminFromContext(c)) {
		return
	}

	messages, err := h.messageService.GetThread(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Messages retrieved successfully",
		"data": gin.H{
			"messages": messages,
			"total":    len(messages),
		},
	})
}

// MarkThreadRead handles POST /messages/orders/:orderId/read
func (h *MessageHandler) MarkThreadRead(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID := c.Param("orderId")
	if !h.canAccessThread(c, orderID, userID, middleware.IsAdminFromContext(c)) {
		return
	}

	if err := h.messageService.MarkThreadRead(c.Request.Context(), orderID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Messages marked as read",
	})
}

// GetUnreadCount handles GET /messages/unread
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	count, err := h.messageService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unread count retrieved successfully",
		"data":    gin.H{"count": count},
	})
}

// canAccessThread verifies the caller owns the order or is an admin. Writes
// the error response itself and returns false when access is denied.
func (h *MessageHandler) canAccessThread(c *gin.Context, orderID, userID string, isAdmin bool) bool {
	ownerID := userID
	if isAdmin {
		ownerID = ""
	}
	if _, err := h.orderService.GetOrder(c.Request.Context(), orderID, ownerID); err != nil {
		if errors.Is(err, order.ErrNotFound) || errors.Is(err, order.ErrNotOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify order access"})
		}
		return false
	}
	return true
}
