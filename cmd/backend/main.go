package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	_ "github.com/Aboubacar2012/crsd-platform/docs"
	"github.com/Aboubacar2012/crsd-platform/internal/app/config"
	"github.com/Aboubacar2012/crsd-platform/internal/app/dsn"
	"github.com/Aboubacar2012/crsd-platform/internal/app/handler"
	"github.com/Aboubacar2012/crsd-platform/internal/app/middleware"
	"github.com/Aboubacar2012/crsd-platform/internal/app/redis"
	"github.com/Aboubacar2012/crsd-platform/internal/app/repository"
	"github.com/Aboubacar2012/crsd-platform/internal/app/storage"
	"github.com/Aboubacar2012/crsd-platform/internal/pkg"
)

// @title CRSD Platform API
// @version 1.0
// @description Portail d'administration : comptes, types d'acteurs et organisations
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logrus.Info("App start")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("cant parse config: %v", err)
	}

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("cant init repository: %v", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("cant connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Le stockage de logos est optionnel : on démarre sans
	minioClient, err := storage.NewMinIOClient(
		cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
		cfg.Minio.Bucket, cfg.Minio.UseSSL,
	)
	if err != nil {
		logrus.Warnf("minio unavailable, logo upload disabled: %v", err)
		minioClient = nil
	}

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	app := pkg.NewApp(cfg, gin.Default(), apiHandler, authMiddleware)
	app.RunApp()

	logrus.Info("App terminated")
}
