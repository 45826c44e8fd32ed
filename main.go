package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yyonggg2/MechMentorApp/config"
	"github.com/yyonggg2/MechMentorApp/handler"
	"github.com/yyonggg2/MechMentorApp/middleware"
	"github.com/yyonggg2/MechMentorApp/pkg/logger"
	"github.com/yyonggg2/MechMentorApp/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize term storage
	termStore, err := service.NewTermStore(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open term database", "error", err, "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer termStore.Close()

	// The Gemini gateway is optional: without a credential the server still
	// runs, AI-dependent endpoints degrade instead of the process crashing.
	var gateway service.ModelGateway
	if cfg.Gemini.APIKey != "" {
		gemini, err := service.NewGeminiService(context.Background(), &cfg.Gemini)
		if err != nil {
			slog.Error("failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		gateway = gemini
		slog.Info("AI clients initialized successfully", "model", cfg.Gemini.Model, "flash_model", cfg.Gemini.FlashModel)
	} else {
		slog.Warn("GOOGLE_API_KEY not set, AI-dependent endpoints are disabled")
	}

	// Job store and analysis worker pool
	jobStore := service.NewJobStore()
	analyzer := service.NewAnalyzer(jobStore, gateway, cfg.Analysis.Workers, cfg.Analysis.QueueSize)
	analyzer.Start()
	defer analyzer.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	analyzeHandler := handler.NewAnalyzeHandler(jobStore, analyzer)
	termHandler := handler.NewTermHandler(termStore, gateway)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware(cfg.Server.AllowOrigin)) // CORS for the frontend
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Analysis job endpoints
	router.POST("/analyze/", analyzeHandler.Analyze)
	router.GET("/status/:job_id", analyzeHandler.Status)

	// Term endpoints; protected only when users are configured
	terms := router.Group("/")
	if cfg.AuthEnabled() {
		router.POST("/auth/login", authHandler.Login)
		router.GET("/auth/me", middleware.AuthMiddleware(&cfg.Auth), authHandler.GetCurrentUser)
		terms.Use(middleware.AuthMiddleware(&cfg.Auth))
	}
	terms.POST("/explain-term/", termHandler.ExplainTerm)
	terms.POST("/terms/", termHandler.CreateTerm)
	terms.GET("/terms/", termHandler.ListTerms)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers for the configured frontend origin
func corsMiddleware(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
