package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careers-portal-backend/config"
	_ "careers-portal-backend/docs" // Important for Swagger
	v1 "careers-portal-backend/internal/delivery/http/v1"
	"careers-portal-backend/internal/repository/postgres"
	"careers-portal-backend/internal/usecase"
	"careers-portal-backend/pkg/database"
	"careers-portal-backend/pkg/logger"
	"careers-portal-backend/pkg/redis"
	"careers-portal-backend/pkg/storage"
	"careers-portal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           Careers Portal Backend API
// @version         1.0
// @description     Resume submission backend for the careers portal.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting careers portal backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Object Storage
	s3Cfg := storage.S3Config{
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Region:          cfg.AWSRegion,
		Bucket:          cfg.AWSBucket,
	}
	s3Client, err := storage.NewS3Client(context.Background(), s3Cfg)
	if err != nil {
		logger.Log.Error("Failed to create S3 client", "error", err)
		os.Exit(1)
	}
	resumeStore := storage.NewResumeStore(s3Client, s3Cfg)

	// 5. Setup Redis (optional; nil falls back to in-memory limiting)
	redisClient, err := redis.NewClient(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 6. Setup Repository and UseCase
	validate := validator.New()
	validation.RegisterValidators(validate)

	careerUserRepo := postgres.NewCareerUserRepository(dbPool)
	careersUC := usecase.NewCareersUsecase(careerUserRepo, resumeStore, validate)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CareersUC: careersUC,
		Redis:     redisClient,
		Config:    cfg,
	})

	// 8. Start Server
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
