package handlers

import (
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/session"
	"storefront/internal/storefront"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	sessions
	registry *storefront.Registry
}

func NewCartHandler(registry *storefront.Registry, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *CartHandler {
	return &CartHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger, loginMessage: cart.LoginRequiredMessage},
		registry: registry,
	}
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) Get(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	view, err := h.registry.Get(id).Cart.Load(c.Request.Context())
	h.respond(c, id, view, err, "Failed to load cart")
}

// Add puts :slug in the cart; quantity defaults to 1.
func (h *CartHandler) Add(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	quantity := 1
	var req quantityRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
	}

	view, err := h.registry.Get(id).Cart.AddItem(c.Request.Context(), c.Param("slug"), quantity)
	h.respond(c, id, view, err, "Failed to add item")
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	view, err := h.registry.Get(id).Cart.SetQuantity(c.Request.Context(), c.Param("slug"), *req.Quantity)
	h.respond(c, id, view, err, "Failed to update quantity")
}

func (h *CartHandler) Remove(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	view, err := h.registry.Get(id).Cart.RemoveLine(c.Request.Context(), c.Param("slug"))
	h.respond(c, id, view, err, "Failed to remove item")
}

// respond always carries the cart as it now stands, so a failed edit shows
// its reverted quantity.
func (h *CartHandler) respond(c *gin.Context, id string, view cart.View, err error, fallback string) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"cart": view})
		return
	}

	h.logger.Error("%s: %v", fallback, err)
	if h.manager.EndOnUnauthorized(c.Request.Context(), id, err) {
		h.clearCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please log in."})
		return
	}
	status, message := errorResponse(err, fallback)
	c.JSON(status, gin.H{"error": message, "cart": view})
}
