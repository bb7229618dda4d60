package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/xlpostcards/fulfillment/internal/server/http/handlers"
	"github.com/xlpostcards/fulfillment/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.FulfillmentFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	postcardHandler := handlers.NewPostcardHandler(facade)
	addressHandler := handlers.NewAddressHandler(facade)
	couponHandler := handlers.NewCouponHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	postcards := api.Group("/postcards")
	postcards.POST("", postcardHandler.Create)
	postcards.POST("/:id/retry", postcardHandler.Retry)
	postcards.POST("/:id/refund", postcardHandler.Refund)
	postcards.GET("/:id", postcardHandler.Status)

	api.POST("/addresses/validate", addressHandler.Validate)
	api.POST("/coupons/validate", couponHandler.Validate)

	return engine
}
