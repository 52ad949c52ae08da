package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campdir/docs/swagger"
	"campdir/internal/api"
	"campdir/internal/config"
	"campdir/internal/db"
	"campdir/internal/events"
	"campdir/internal/geo"
	"campdir/internal/models"
	"campdir/internal/services"
	"campdir/internal/tasks"
	"campdir/internal/utils/logger"

	"github.com/joho/godotenv"
)

// @title campdir API
// @version 1.0
// @description Bootcamp directory API
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	console := logger.New("campdir")

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		console.Info("No .env file found, skipping environment variable loading")
	} else {
		console.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			console.Warn("Failed to close database connection: %v", err)
		}
	}()

	dbInstance := db.GetDB()

	// Background task plumbing
	taskClient := tasks.NewTaskClient(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	defer func() {
		if err := taskClient.Close(); err != nil {
			console.Warn("Failed to close task client: %v", err)
		}
	}()

	taskHandler := tasks.NewTaskHandler(dbInstance, cfg)
	taskServer := tasks.NewServer(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		taskHandler,
		console,
	)

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	go func() {
		if err := taskServer.Start(serverCtx); err != nil {
			_ = console.Error("Task server error", err)
		}
	}()

	taskScheduler := tasks.NewScheduler(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		console,
	)
	go func() {
		if err := taskScheduler.Start(); err != nil {
			_ = console.Error("Task scheduler error", err)
		}
	}()

	// Resource writes fan out to aggregate recomputes through the bus.
	recompute := func(enqueue func(string) error) events.EventHandler {
		return func(data interface{}) {
			bootcampID, ok := data.(string)
			if !ok || bootcampID == "" {
				return
			}
			if err := enqueue(bootcampID); err != nil {
				console.Warn("Failed to enqueue recompute for %s: %v", bootcampID, err)
			}
		}
	}
	for _, event := range []string{"review.created", "review.updated", "review.deleted"} {
		events.On(event, recompute(taskClient.EnqueueRecomputeRating))
	}
	for _, event := range []string{"course.created", "course.updated", "course.deleted"} {
		events.On(event, recompute(taskClient.EnqueueRecomputeCost))
	}

	deps := api.Deps{ResetMailer: taskClient}

	if cfg.Geocoder.BaseURL != "" {
		deps.Geocoder = geo.NewGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey)
	}

	if cfg.S3.BucketName != "" {
		s3Service, err := services.NewS3Service(
			cfg.S3.BucketName,
			cfg.S3.Endpoint,
			cfg.S3.Region,
			cfg.S3.AccessKey,
			cfg.S3.SecretKey,
		)
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		models.RegisterPhotoURLGenerator(s3Service)
		deps.Uploader = s3Service
	} else {
		console.Warn("S3 not configured, photo uploads disabled")
	}

	apiServer := api.NewServer(cfg, dbInstance, deps)
	go func() {
		swagger.SwaggerInfo.Title = "campdir API Documentation"
		swagger.SwaggerInfo.Description = "Bootcamp directory API"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.BasePath = "/api/v1"

		console.Success("API server starting")
		if err := apiServer.Start(); err != nil {
			_ = console.Error("API server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taskScheduler.Stop()
	taskServer.Shutdown()
	serverCancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		_ = console.Error("Failed to shutdown API server", err)
	}

	console.Info("Servers shutdown gracefully")
}
