package handlers

import (
	"net/http"

	"storefront/internal/api/middleware"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	sessions
	catalog *catalog.Fetcher
}

func NewCatalogHandler(fetcher *catalog.Fetcher, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger},
		catalog:  fetcher,
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching products: %v", err)
		respondError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *CatalogHandler) Search(c *gin.Context) {
	items, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.Error("Error searching products: %v", err)
		respondError(c, err, "Failed to search products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), token, c.Param("slug"))
	if err != nil {
		h.logger.Error("Error fetching product %s: %v", c.Param("slug"), err)
		h.fail(c, id, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

// Related lists products sharing the category of :slug.
func (h *CatalogHandler) Related(c *gin.Context) {
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), token, c.Param("slug"))
	if err != nil {
		h.fail(c, id, err, "Failed to fetch product")
		return
	}

	items, err := h.catalog.Related(c.Request.Context(), product.Category)
	if err != nil {
		h.logger.Error("Error fetching related products: %v", err)
		respondError(c, err, "Failed to fetch related products")
		return
	}

	related := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if it.Slug != product.Slug {
			related = append(related, it)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": related})
}

// Recommendations is empty for anonymous shoppers.
func (h *CatalogHandler) Recommendations(c *gin.Context) {
	if middleware.SessionID(c) == "" {
		c.JSON(http.StatusOK, gin.H{"data": []catalog.Item{}})
		return
	}
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	items, err := h.catalog.Recommendations(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("Error fetching recommendations: %v", err)
		h.fail(c, id, err, "Failed to fetch recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
