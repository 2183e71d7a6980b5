package handlers

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/backend"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/session"
	"storefront/internal/storefront"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ContentHandler serves the shop's informational pages: FAQs, product
// reviews and the contact form.
type ContentHandler struct {
	sessions
	backend *backend.Client
}

func NewContentHandler(b *backend.Client, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *ContentHandler {
	return &ContentHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger, loginMessage: "User not authenticated"},
		backend:  b,
	}
}

func (h *ContentHandler) FAQs(c *gin.Context) {
	faqs, err := h.backend.ListFAQs(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching FAQs: %v", err)
		respondError(c, err, "Failed to fetch FAQs")
		return
	}
	if faqs == nil {
		faqs = []backend.FAQ{}
	}
	c.JSON(http.StatusOK, gin.H{"data": faqs})
}

// Reviews lists the reviews of the product with uid :uid.
func (h *ContentHandler) Reviews(c *gin.Context) {
	reviews, err := h.backend.ListReviews(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.logger.Error("Error fetching reviews for %s: %v", c.Param("uid"), err)
		respondError(c, err, "Failed to fetch reviews")
		return
	}
	if reviews == nil {
		reviews = []backend.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

func (h *ContentHandler) Contact(c *gin.Context) {
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	var msg backend.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Email" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address", "field": "email"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and message are required"})
		return
	}

	if err := h.backend.SubmitContact(c.Request.Context(), token, msg); err != nil {
		h.logger.Error("Error sending contact message: %v", err)
		h.fail(c, id, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully!"})
}

type WishlistHandler struct {
	sessions
	backend  *backend.Client
	registry *storefront.Registry
}

func NewWishlistHandler(b *backend.Client, registry *storefront.Registry, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger, loginMessage: "Please log in to add items to wishlist"},
		backend:  b,
		registry: registry,
	}
}

type wishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Add saves a product to the wishlist and posts the outcome as a
// notification, like adding to the cart.
func (h *WishlistHandler) Add(c *gin.Context) {
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	notices := h.registry.Get(id).Notices
	if err := h.backend.AddToWishlist(c.Request.Context(), token, req.ProductID); err != nil {
		h.logger.Error("Error adding %s to wishlist: %v", req.ProductID, err)
		if !backend.IsUnauthorized(err) {
			notices.Show(backend.UserMessage(err, "Failed to add to wishlist"), notify.KindError)
		}
		h.fail(c, id, err, "Failed to add to wishlist")
		return
	}

	notices.Show("Added to wishlist", notify.KindSuccess)
	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist"})
}
