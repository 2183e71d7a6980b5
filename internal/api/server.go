package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/api/handlers"
	"storefront/internal/api/middleware"
	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/payment"
	"storefront/internal/session"
	"storefront/internal/storefront"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config   *config.Config
	logger   *logger.Logger
	db       *database.Database
	registry *storefront.Registry
	router   *gin.Engine
	server   *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Session(cfg.SessionCookie))

	// Services
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger)
	sessions := session.NewManager(session.NewGormStore(db.DB), publisher, logger)
	registry := storefront.NewRegistry(client, storefront.Options{
		Tokens: func(id string) cart.TokenFunc {
			return sessions.TokenFunc(id)
		},
		Publisher:       publisher,
		Logger:          logger,
		ResyncDelay:     cfg.CartResyncDelay,
		NotificationTTL: cfg.NotificationTTL,
	})
	sessions.OnEnd(registry.Drop)

	fetcher := catalog.NewFetcher(client, cfg.MediaBaseURL)
	dispatcher := payment.NewDispatcher(client, cfg.PaymentCurrency, cfg.MpesaCountryCode, publisher, logger)
	checkoutService := checkout.NewService(client, dispatcher, publisher, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(client, sessions, logger, cfg)
	profileHandler := handlers.NewProfileHandler(client, fetcher, sessions, logger, cfg)
	catalogHandler := handlers.NewCatalogHandler(fetcher, sessions, logger, cfg)
	cartHandler := handlers.NewCartHandler(registry, sessions, logger, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(registry, checkoutService, sessions, logger, cfg)
	notificationHandler := handlers.NewNotificationHandler(registry, sessions, logger, cfg)
	chatHandler := handlers.NewChatHandler(client, logger)
	blogHandler := handlers.NewBlogHandler(client, fetcher, sessions, logger, cfg)
	contentHandler := handlers.NewContentHandler(client, sessions, logger, cfg)
	wishlistHandler := handlers.NewWishlistHandler(client, registry, sessions, logger, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Auth
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/register", authHandler.Register)
			auth.GET("/session", authHandler.Session)
			auth.POST("/password-reset", authHandler.PasswordReset)
			auth.GET("/activate/:uidb64/:token", authHandler.Activate)
		}

		// Profile
		v1.GET("/profile", profileHandler.Get)
		v1.DELETE("/profile", profileHandler.Delete)

		// Catalog
		products := v1.Group("/products")
		{
			products.GET("", catalogHandler.List)
			products.GET("/search", catalogHandler.Search)
			products.GET("/:slug", catalogHandler.Get)
			products.GET("/:slug/related", catalogHandler.Related)
		}
		v1.GET("/recommendations", catalogHandler.Recommendations)
		v1.GET("/reviews/:uid", contentHandler.Reviews)
		v1.POST("/wishlist", wishlistHandler.Add)

		// Cart
		cartGroup := v1.Group("/cart")
		{
			cartGroup.GET("", cartHandler.Get)
			cartGroup.POST("/items/:slug", cartHandler.Add)
			cartGroup.PUT("/items/:slug", cartHandler.SetQuantity)
			cartGroup.DELETE("/items/:slug", cartHandler.Remove)
		}

		// Checkout
		checkoutGroup := v1.Group("/checkout")
		{
			checkoutGroup.POST("", checkoutHandler.Start)
			checkoutGroup.GET("", checkoutHandler.Get)
			checkoutGroup.POST("/tabs/:tab/open", checkoutHandler.OpenTab)
			checkoutGroup.POST("/tabs/:tab/close", checkoutHandler.CloseTab)
			checkoutGroup.GET("/addresses", checkoutHandler.Addresses)
			checkoutGroup.POST("/addresses", checkoutHandler.SaveAddress)
			checkoutGroup.POST("/confirm", checkoutHandler.Confirm)
		}

		// Notifications
		v1.GET("/notification", notificationHandler.Get)
		v1.DELETE("/notification", notificationHandler.Dismiss)

		// Blog
		blogs := v1.Group("/blogs")
		{
			blogs.GET("", blogHandler.List)
			blogs.GET("/:id", blogHandler.Get)
			blogs.GET("/:id/comments", blogHandler.Comments)
			blogs.POST("/:id/comments", blogHandler.CreateComment)
		}

		// Pages
		v1.GET("/faqs", contentHandler.FAQs)
		v1.POST("/contact", contentHandler.Contact)

		// Chat widget
		v1.POST("/chat", chatHandler.Send)
	}

	return &Server{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: registry,
		router:   router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	defer s.registry.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router for Vercel
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
