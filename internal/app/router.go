package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"parcel/internal/auth"
	"parcel/internal/handler"
	"parcel/internal/middleware"
	internalRedis "parcel/internal/redis"
	"parcel/internal/repository"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler     *handler.UserHandler
	ParcelHandler   *handler.ParcelHandler
	RiderHandler    *handler.RiderHandler
	PaymentHandler  *handler.PaymentHandler
	TrackingHandler *handler.TrackingHandler
	Verifier        auth.Verifier
	UserRepo        repository.UserRepository
	RoleCache       internalRedis.RoleCacheInterface
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered. The flat
// route surface is the external contract of the original system and is
// kept as-is.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.Metrics())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	tokenRequired := middleware.Authenticate(deps.Verifier)
	tokenOptional := middleware.AuthenticateOptional(deps.Verifier)
	adminOnly := middleware.RequireAdmin(deps.UserRepo, deps.RoleCache)

	// Liveness probe.
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is running!")
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// User routes.
	users := router.Group("/users")
	{
		users.POST("", deps.UserHandler.Register)
		users.GET("/search", deps.UserHandler.Search)
		users.GET("/:email/role", deps.UserHandler.GetRole)
		users.PATCH("/:id/role", tokenRequired, adminOnly, deps.UserHandler.UpdateRole)
	}

	// Parcel routes.
	parcels := router.Group("/parcels")
	{
		parcels.POST("", deps.ParcelHandler.Create)
		parcels.GET("", tokenOptional, deps.ParcelHandler.List)
		parcels.GET("/:id", deps.ParcelHandler.Get)
		parcels.DELETE("/:id", deps.ParcelHandler.Delete)
		parcels.GET("/:id/tracking", deps.TrackingHandler.Feed)
	}

	// Rider routes.
	riders := router.Group("/riders")
	{
		riders.POST("", deps.RiderHandler.Apply)
		riders.POST("/assign-rider", deps.RiderHandler.Assign)
		riders.GET("/available", deps.RiderHandler.Available)
		riders.GET("/pending", tokenRequired, adminOnly, deps.RiderHandler.Pending)
		riders.GET("/active", tokenRequired, adminOnly, deps.RiderHandler.Active)
		riders.PATCH("/:id/status", deps.RiderHandler.UpdateStatus)
	}

	// Tracking feed.
	router.POST("/tracking", deps.TrackingHandler.Append)

	// Payment routes.
	router.GET("/payments", tokenRequired, deps.PaymentHandler.History)
	router.POST("/payments", deps.PaymentHandler.Confirm)
	router.POST("/create-payment-intent", deps.PaymentHandler.CreateIntent)

	return router
}
