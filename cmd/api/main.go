package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-collab-backend/config"
	_ "go-collab-backend/docs" // Important for Swagger
	v1 "go-collab-backend/internal/delivery/http/v1"
	"go-collab-backend/internal/repository/postgres"
	"go-collab-backend/internal/usecase"
	"go-collab-backend/pkg/auth"
	"go-collab-backend/pkg/database"
	"go-collab-backend/pkg/email"
	"go-collab-backend/pkg/logger"
	"go-collab-backend/pkg/redis"

	"github.com/go-playground/validator/v10"
)

// @title           Collab Engine API
// @version         1.0
// @description     Backend for the Collab Engine creator matching app using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting collab backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting; in-memory fallback when absent)
	if err := redis.Initialize(redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	collabRepo := postgres.NewCollabRepository(dbPool)
	messageRepo := postgres.NewMessageRepository(dbPool)

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will be unavailable")
	}

	// 7. Setup UseCases
	validate := validator.New()
	reliabilityUC := usecase.NewReliabilityUsecase(messageRepo, collabRepo, userRepo)
	userUC := usecase.NewProfileUsecase(userRepo, validate)
	collabUC := usecase.NewCollabUsecase(collabRepo, userRepo, reliabilityUC, validate)
	discoveryUC := usecase.NewDiscoveryUsecase(userRepo, collabRepo)
	messageUC := usecase.NewMessageUsecase(messageRepo, collabRepo)
	contactUC := usecase.NewContactUsecase(emailService)

	// 8. Setup Auth Provider (JWKS)
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		UserUC:        userUC,
		CollabUC:      collabUC,
		DiscoveryUC:   discoveryUC,
		MessageUC:     messageUC,
		ReliabilityUC: reliabilityUC,
		ContactUC:     contactUC,
		JWKSProvider:  jwksProvider,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
