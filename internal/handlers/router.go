package handlers

import (
	"net/http"

	"golang-storefront/internal/middleware"
	"golang-storefront/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig collects what NewRouter mounts. RateLimiter may be nil.
type RouterConfig struct {
	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger

	Cart     *CartHandler
	Products *ProductHandler
	Orders   *OrderHandler
	Users    *UserHandler
	Images   *ImageHandler
	Sessions *SessionHandler
}

// NewRouter builds the engine serving /api/v1.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(cfg.Logger))
	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(middleware.CORSMiddleware())

	api := router.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "golang-storefront",
		})
	})
	api.GET("/metrics", gin.WrapH(metrics.Handler()))

	api.Use(cfg.Auth.OptionalAuth())
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Handler())
	}

	cfg.Sessions.RegisterRoutes(api)
	cfg.Cart.RegisterRoutes(api, cfg.Auth)
	cfg.Products.RegisterRoutes(api)

	authed := api.Group("", cfg.Auth.TokenRequired())
	admin := authed.Group("/admin")

	cfg.Orders.RegisterRoutes(authed.Group("/orders"), admin)
	cfg.Users.RegisterRoutes(authed, admin)
	cfg.Products.RegisterAdminRoutes(admin)
	cfg.Images.RegisterRoutes(admin)

	return router
}
