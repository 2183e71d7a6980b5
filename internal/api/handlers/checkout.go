package handlers

import (
	"net/http"

	"storefront/internal/backend"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/payment"
	"storefront/internal/session"
	"storefront/internal/storefront"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	sessions
	registry *storefront.Registry
	service  *checkout.Service
}

func NewCheckoutHandler(registry *storefront.Registry, service *checkout.Service, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger},
		registry: registry,
		service:  service,
	}
}

// Start freezes the displayed cart into a new checkout, replacing any
// earlier one.
func (h *CheckoutHandler) Start(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	ws := h.registry.Get(id)
	if !ws.Cart.View().Loaded {
		if _, err := ws.Cart.Load(c.Request.Context()); err != nil {
			h.fail(c, id, err, "Failed to load cart")
			return
		}
	}
	quote, err := ws.Cart.Quote()
	if err != nil {
		respondError(c, err, "")
		return
	}

	flow := ws.BeginCheckout(quote)
	c.JSON(http.StatusCreated, gin.H{"checkout": flow.State()})
}

func (h *CheckoutHandler) Get(c *gin.Context) {
	flow, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": flow.State()})
}

func (h *CheckoutHandler) OpenTab(c *gin.Context) {
	h.toggle(c, (*checkout.Flow).Open)
}

func (h *CheckoutHandler) CloseTab(c *gin.Context) {
	h.toggle(c, (*checkout.Flow).Close)
}

func (h *CheckoutHandler) toggle(c *gin.Context, apply func(*checkout.Flow, checkout.Tab) (checkout.Transition, error)) {
	flow, ok := h.flow(c)
	if !ok {
		return
	}

	tab, err := checkout.ParseTab(c.Param("tab"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	transition, err := apply(flow, tab)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transition": transition, "checkout": flow.State()})
}

func (h *CheckoutHandler) Addresses(c *gin.Context) {
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	form, err := h.service.Addresses(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("Error fetching shipping addresses: %v", err)
		h.fail(c, id, err, "Failed to fetch shipping addresses")
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *CheckoutHandler) SaveAddress(c *gin.Context) {
	flow, ok := h.flow(c)
	if !ok {
		return
	}
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	var addr backend.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, transition, err := h.service.SaveAddress(c.Request.Context(), token, flow, addr)
	if err != nil {
		h.logger.Error("Error saving shipping address: %v", err)
		h.fail(c, id, err, "Failed to save shipping address")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": saved, "transition": transition})
}

type confirmRequest struct {
	Method string `json:"method" binding:"required"`
	Phone  string `json:"phone"`
}

// Confirm places the order and pays for it. The payment message is also
// posted to the session's notification slot.
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	flow, ok := h.flow(c)
	if !ok {
		return
	}
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a payment method"})
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), token, flow, checkout.ConfirmRequest{
		Method: payment.Method(req.Method),
		Phone:  req.Phone,
	})

	notices := h.registry.Get(id).Notices
	switch {
	case result != nil:
		kind := notify.KindError
		if result.Success {
			kind = notify.KindSuccess
		}
		notices.Show(result.Message, kind)

		status := http.StatusOK
		if err != nil {
			status, _ = errorResponse(err, "")
		}
		c.JSON(status, gin.H{"payment": result, "checkout": flow.State()})
	case err != nil:
		h.logger.Error("Checkout failed: %v", err)
		if h.manager.EndOnUnauthorized(c.Request.Context(), id, err) {
			h.clearCookie(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please log in."})
			return
		}
		status, message := errorResponse(err, "Failed to create order")
		notices.Show(message, notify.KindError)
		c.JSON(status, gin.H{"error": message})
	}
}

// flow returns the session's checkout or answers 404.
func (h *CheckoutHandler) flow(c *gin.Context) (*checkout.Flow, bool) {
	id, _, ok := h.token(c)
	if !ok {
		return nil, false
	}
	flow, ok := h.registry.Get(id).Checkout()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No checkout in progress"})
		return nil, false
	}
	return flow, true
}
