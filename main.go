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

	"github.com/codebytaaron/SEO-Content-Optimizer/analyzer"
	"github.com/codebytaaron/SEO-Content-Optimizer/logging"
	"github.com/codebytaaron/SEO-Content-Optimizer/middleware"
)

var (
	contentAnalyzer *analyzer.Analyzer
	rateLimiter     *middleware.RateLimiter
	serviceStats    *logging.Statistics
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		// If .env.development doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	// Set Gin mode based on environment variable
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		// Default to release mode if not specified
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	// Load environment configuration
	loadEnv()

	// Set up Gin mode
	setupGinMode()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	// Initialize services
	var err error
	contentAnalyzer, err = analyzer.New(dataDir)
	if err != nil {
		log.Fatal("Failed to initialize analyzer:", err)
	}
	rateLimiter = middleware.NewRateLimiter(2, 5) // 2 requests per second, bucket size of 5
	metrics := middleware.NewMetrics()

	// Initialize statistics
	serviceStats = logging.Initialize()

	// Initialize Gin router
	r := gin.Default()

	// Add middlewares
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RequestID())
	r.Use(rateLimiter.RateLimit())
	r.Use(metrics.Track())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Visitor and analysis tracking
	r.Use(func(c *gin.Context) {
		start := time.Now()

		serviceStats.TrackVisitor(c.ClientIP())

		c.Next()

		// Only track analysis requests
		path := c.Request.URL.Path
		if (path == "/api/analyze" || path == "/api/analyze-page") && c.Request.Method == "POST" {
			elapsed := float64(time.Since(start).Milliseconds())
			serviceStats.TrackAnalysis(elapsed, c.Writer.Status() >= 400)
		}

		// Periodically save statistics
		if serviceStats.GetStatistics()["totalRequests"].(int)%100 == 0 {
			go serviceStats.Save()
		}
	})

	// API routes
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Analysis endpoints
		api.POST("/analyze", analyzeContent)
		api.POST("/analyze-page", analyzePage)

		// Statistics endpoint
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, serviceStats.GetStatistics())
		})
	}

	// Prometheus exposition
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8082" // Default port
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests and flush counters
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := contentAnalyzer.Shutdown(); err != nil {
		log.Printf("Analyzer shutdown error: %v", err)
	}
	if err := serviceStats.Save(); err != nil {
		log.Printf("Statistics save error: %v", err)
	}
}

func analyzeContent(c *gin.Context) {
	var req analyzer.Request

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON payload",
		})
		return
	}

	c.JSON(http.StatusOK, contentAnalyzer.Analyze(req))
}

func analyzePage(c *gin.Context) {
	var req analyzer.PageRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	result, err := contentAnalyzer.AnalyzePage(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to analyze page: " + err.Error(),
		})
		return
	}

	serviceStats.TrackPage(req.URL)

	c.JSON(http.StatusOK, result)
}
