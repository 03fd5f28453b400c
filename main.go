// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pawtrack/api/config"
	"pawtrack/api/database"
	"pawtrack/api/enrich"
	"pawtrack/api/handlers"
	"pawtrack/api/middleware"
	"pawtrack/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.StatsSecret == "" {
		log.Println("WARNING: STATS_SECRET is not set, /api/stats is open to anyone who can reach it")
	}

	// --- Initialize PostgreSQL and the schema ---
	dbClient, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := database.InitSchema(initCtx, dbClient.DB); err != nil {
		initCancel()
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	initCancel()

	// --- Initialize the Geo/UA enricher ---
	enricher := enrich.NewEnricher(cfg.GeoDBPath)
	defer enricher.Close()

	// --- Initialize Stores ---
	visitStore := store.NewVisitStore(dbClient.DB)
	eventStore := store.NewEventStore(dbClient.DB)
	statsStore := store.NewStatsStore(dbClient.DB)

	// --- Initialize Handlers ---
	visitHandlers := handlers.NewVisitHandlers(visitStore, enricher, cfg)
	eventHandlers := handlers.NewEventHandlers(eventStore)
	statsHandlers := handlers.NewStatsHandlers(statsStore, dbClient.DB)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.RequestID())

	api := r.Group("/api")
	{
		// Public ingestion endpoints (no authentication)
		api.POST("/visit", visitHandlers.RecordVisit)
		api.POST("/visit/heartbeat", visitHandlers.Heartbeat)
		api.POST("/event", eventHandlers.RecordEvent)
		api.GET("/health", statsHandlers.HealthCheck)

		// Admin dashboard endpoint (shared-secret header)
		api.GET("/stats", middleware.StatsAuth(cfg), statsHandlers.GetStats)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
