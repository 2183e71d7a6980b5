package handlers

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/session"
	"storefront/internal/storefront"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	sessions
	registry *storefront.Registry
}

func NewNotificationHandler(registry *storefront.Registry, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *NotificationHandler {
	return &NotificationHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger},
		registry: registry,
	}
}

func (h *NotificationHandler) Get(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	n, ok := h.registry.Get(id).Notices.Current()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"notification": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	id, _, ok := h.token(c)
	if !ok {
		return
	}

	h.registry.Get(id).Notices.Dismiss()
	c.Status(http.StatusNoContent)
}
