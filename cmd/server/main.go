package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/app"
	"carpool/internal/config"
	"carpool/internal/handler"
	internalRedis "carpool/internal/redis"
	"carpool/internal/repository/postgres"
	"carpool/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories. Edge lookups go through the Redis-backed
	// adjacency cache; everything else hits Postgres directly.
	graphRepo := internalRedis.NewCachedGraphRepository(postgres.NewGraphRepository(db), cacheStore)
	tripRepo := postgres.NewTripRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	userRepo := postgres.NewUserRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Initialize services.
	finder := service.NewPathFinder(graphRepo)
	planner := service.NewDetourPlanner(finder)
	userService := service.NewUserService(uow, userRepo)
	tripService := service.NewTripService(uow, lockStore, tripRepo, requestRepo, offerRepo, walletRepo, graphRepo, finder)
	requestService := service.NewRequestService(requestRepo, offerRepo, graphRepo)
	matchingService := service.NewMatchingService(tripRepo, requestRepo, offerRepo, finder, planner, cfg.Fare, cfg.Matching)
	offerService := service.NewOfferService(uow, lockStore, tripRepo, requestRepo, offerRepo, planner, cfg.Fare)
	walletService := service.NewWalletService(uow, walletRepo)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userService)
	nodeHandler := handler.NewNodeHandler(graphRepo)
	tripHandler := handler.NewTripHandler(tripService, matchingService)
	requestHandler := handler.NewRequestHandler(requestService)
	offerHandler := handler.NewOfferHandler(offerService)
	walletHandler := handler.NewWalletHandler(walletService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:    userHandler,
		NodeHandler:    nodeHandler,
		TripHandler:    tripHandler,
		RequestHandler: requestHandler,
		OfferHandler:   offerHandler,
		WalletHandler:  walletHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
