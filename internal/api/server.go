package api

import (
	"context"

	"processpilot/internal/app/billing"
	"processpilot/internal/app/config"
	"processpilot/internal/app/dsn"
	"processpilot/internal/app/handler"
	"processpilot/internal/app/middleware"
	"processpilot/internal/app/notify"
	"processpilot/internal/app/redis"
	"processpilot/internal/app/repository"
	"processpilot/internal/app/storage"
	"processpilot/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer wires every dependency together and runs the HTTP server.
func StartServer() {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("database DSN is empty, check your .env file")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("error initializing repository: %v", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("error connecting to redis: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(
		cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
		cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
	if err != nil {
		logrus.Fatalf("error connecting to minio: %v", err)
	}

	mailer := notify.New(cfg.Resend)
	billingClient := billing.New(cfg.Stripe)

	apiHandler := handler.NewAPIHandler(repo, redisClient, cfg, mailer, billingClient, minioClient)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.Default()

	app := pkg.NewApp(cfg, router, apiHandler, authMiddleware)
	app.RunApp()
}
