package handlers

import (
	"net/http"
	"strings"

	"storefront/internal/backend"
	"storefront/internal/logger"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	backend *backend.Client
	logger  *logger.Logger
}

func NewChatHandler(b *backend.Client, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{backend: b, logger: logger}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.backend.Chat(c.Request.Context(), req.Message)
	if err != nil {
		h.logger.Error("Error fetching chatbot response: %v", err)
		respondError(c, err, "Failed to fetch chatbot response")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
