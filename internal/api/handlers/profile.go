package handlers

import (
	"net/http"

	"storefront/internal/backend"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const defaultAvatar = "/images/avatar.png"

type ProfileHandler struct {
	sessions
	backend *backend.Client
	catalog *catalog.Fetcher
}

func NewProfileHandler(b *backend.Client, fetcher *catalog.Fetcher, manager *session.Manager, logger *logger.Logger, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{
		sessions: sessions{manager: manager, config: cfg, logger: logger},
		backend:  b,
		catalog:  fetcher,
	}
}

// Get loads the profile and order history concurrently. A rejected token
// on the profile ends the session; a failed order fetch only reports an
// error next to the profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	var (
		profile   *backend.Profile
		orders    []backend.Order
		ordersErr error
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		profile, err = h.backend.GetProfile(ctx, token)
		return err
	})
	g.Go(func() error {
		orders, ordersErr = h.backend.ListOrders(ctx, token)
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("Failed to fetch profile: %v", err)
		h.fail(c, id, err, "Failed to fetch profile")
		return
	}

	image := defaultAvatar
	if profile.ProfileImage != "" {
		image = h.catalog.ImageURL(profile.ProfileImage)
	}

	resp := gin.H{
		"profile":           profile,
		"profile_image_url": image,
		"orders":            orders,
	}
	if ordersErr != nil {
		h.logger.Error("Failed to fetch orders: %v", ordersErr)
		resp["orders"] = []backend.Order{}
		resp["orders_error"] = "Failed to fetch orders"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	id, token, ok := h.token(c)
	if !ok {
		return
	}

	if err := h.backend.DeleteProfile(c.Request.Context(), token); err != nil {
		h.logger.Error("Failed to delete profile: %v", err)
		h.fail(c, id, err, "Error deleting profile")
		return
	}

	if err := h.manager.End(c.Request.Context(), id, "profile deleted"); err != nil {
		h.logger.Error("Failed to end session: %v", err)
	}
	h.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
}
