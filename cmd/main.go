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

	"prediction-game/internal/auth"
	"prediction-game/internal/config"
	"prediction-game/internal/database"
	"prediction-game/internal/handlers"
	"prediction-game/internal/repository"
	"prediction-game/internal/services"
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

	// Initialize repository
	predictionRepo := repository.NewPredictionRepository(database.GetDB())

	// Initialize services
	authService := services.NewAuthService(database.GetDB())
	predictionService := services.NewPredictionService(predictionRepo, cfg.Rewards)
	leaderboardService := services.NewLeaderboardService(predictionRepo, cfg.App.DefaultState)
	cmService := services.NewCMService(database.GetDB())
	quizService := services.NewQuizService(database.GetDB())
	dashboardService := services.NewDashboardService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	predictionHandler := handlers.NewPredictionHandler(predictionService, cfg.App.DefaultState, cfg.App.DefaultElectionYear)
	analyticsHandler := handlers.NewAnalyticsHandler(leaderboardService, cfg.App.DefaultElectionYear)
	cmHandler := handlers.NewCMHandler(cmService, cfg.App.DefaultState)
	quizHandler := handlers.NewQuizHandler(quizService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
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

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public prediction routes
	router.GET("/api/predictions/public", predictionHandler.GetPublicPredictions)
	router.GET("/api/predictions/leaderboard", analyticsHandler.GetLeaderboard)
	router.GET("/api/predictions/stats", analyticsHandler.GetStats)
	router.GET("/api/predictions/area/:area/analytics", analyticsHandler.GetAreaAnalytics)
	router.GET("/api/predictions/area/:area/analytics/:electionYear", analyticsHandler.GetAreaAnalytics)
	router.GET("/api/cm/candidates", cmHandler.GetCandidates)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		predictions := api.Group("/predictions")
		{
			// Main prediction management
			predictions.POST("/create", predictionHandler.CreatePrediction)
			predictions.GET("/my-prediction", predictionHandler.GetMyPrediction)
			predictions.GET("/progress", analyticsHandler.GetProgress)
			predictions.GET("/all", predictionHandler.GetAllPredictions)

			// Area-specific records (the caller's own)
			predictions.GET("/area/:area", predictionHandler.GetPredictionsByArea)

			// Individual set operations
			predictions.GET("/:predictionId", predictionHandler.GetPredictionByID)
			predictions.PATCH("/:predictionId", predictionHandler.UpdatePrediction)
			predictions.DELETE("/:predictionId", predictionHandler.DeletePrediction)

			// Constituency-level operations
			predictions.POST("/:predictionId/constituency", predictionHandler.AddConstituencyPrediction)
			predictions.GET("/:predictionId/constituency/:constituency", predictionHandler.GetConstituencyPrediction)
			predictions.DELETE("/:predictionId/constituency/:constituency", predictionHandler.DeleteConstituencyPrediction)
			predictions.PATCH("/:predictionId/constituency/:constituency/lock", predictionHandler.LockConstituencyPrediction)

			// Bulk operations
			predictions.POST("/:predictionId/bulk", predictionHandler.BulkAddPredictions)
			predictions.PATCH("/:predictionId/reset-unlocked", predictionHandler.ResetUnlockedPredictions)

			// Final submission
			predictions.PATCH("/:predictionId/submit", predictionHandler.SubmitPrediction)
		}

		// Chief-minister pick endpoints
		cm := api.Group("/cm")
		{
			cm.GET("/pick", cmHandler.GetPick)
			cm.POST("/pick", cmHandler.SetPick)
			cm.PATCH("/pick/lock", cmHandler.LockPick)
		}

		// Trivia quiz endpoints
		quiz := api.Group("/quiz")
		{
			quiz.GET("/questions", quizHandler.GetQuestions)
			quiz.POST("/questions", quizHandler.CreateQuestion)
			quiz.PUT("/questions/:questionId", quizHandler.UpdateQuestion)
			quiz.DELETE("/questions/:questionId", quizHandler.DeleteQuestion)
			quiz.POST("/answers", quizHandler.SubmitAnswer)
			quiz.GET("/answers/my", quizHandler.GetMyAnswers)
		}

		// Dashboard snapshot
		api.GET("/dashboard", dashboardHandler.GetDashboard)
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

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
