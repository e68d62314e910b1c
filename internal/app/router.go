package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	NodeHandler    *handler.NodeHandler
	TripHandler    *handler.TripHandler
	RequestHandler *handler.RequestHandler
	OfferHandler   *handler.OfferHandler
	WalletHandler  *handler.WalletHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.Register)
			users.GET("/:id", deps.UserHandler.GetUser)
		}

		// Road graph routes.
		nodes := v1.Group("/nodes")
		{
			nodes.GET("", deps.NodeHandler.GetAll)
			nodes.GET("/:id", deps.NodeHandler.GetNode)
		}

		// Trip routes (driver side).
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/position", deps.TripHandler.UpdatePosition)
			trips.GET("/:id/matches", deps.TripHandler.GetMatches)
			trips.POST("/:id/complete", deps.TripHandler.CompleteTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
		}

		// Ride request routes (passenger side).
		requests := v1.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.CreateRequest)
			requests.GET("", deps.RequestHandler.GetAll)
			requests.POST("/:id/cancel", deps.RequestHandler.CancelRequest)
			requests.GET("/:id/offers", deps.RequestHandler.ListOffers)
		}

		// Offer routes.
		offers := v1.Group("/offers")
		{
			offers.POST("", deps.OfferHandler.CreateOffer)
			offers.POST("/:id/accept", deps.OfferHandler.AcceptOffer)
			offers.POST("/:id/reject", deps.OfferHandler.RejectOffer)
		}

		// Wallet routes.
		wallet := v1.Group("/wallet")
		{
			wallet.GET("", deps.WalletHandler.GetWallet)
			wallet.POST("/topup", deps.WalletHandler.TopUp)
			wallet.GET("/transactions", deps.WalletHandler.GetTransactions)
		}
	}

	return router
}
