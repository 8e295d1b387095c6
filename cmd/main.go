package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"world-events/internal/auth"
	"world-events/internal/config"
	"world-events/internal/database"
	"world-events/internal/handlers"
	"world-events/internal/jobs"
	"world-events/internal/repository"
	"world-events/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository and services
	repo := repository.NewRepository(database.GetDB())
	settingsService := services.NewSettingsService(repo)
	ledgerService := services.NewLedgerService(repo)
	eventService := services.NewEventService(
		repo,
		ledgerService,
		settingsService,
		cfg.App.WeeklyEventLimit,
		cfg.App.EventDurationDays,
	)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(eventService, repo)
	ledgerHandler := handlers.NewLedgerHandler(repo)

	// Start event expiration sweeper
	sweeper := jobs.NewEventSweeper(eventService, cfg.App.SweepInterval)
	go sweeper.Start()

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Public event routes
	router.GET("/api/events", eventHandler.GetEvents)
	router.GET("/api/events/:id", eventHandler.GetEventByID)
	router.GET("/api/zones", eventHandler.GetActiveZones)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/events/suggestions", eventHandler.GetSuggestions)
		api.POST("/events", eventHandler.CreateEvent)
		api.POST("/events/:id/contribute", eventHandler.Contribute)
		api.POST("/events/:id/cancel", eventHandler.CancelEvent)

		api.GET("/ledger", ledgerHandler.GetMyEntries)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	sweeper.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
