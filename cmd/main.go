package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/prasetyow/token-service/config"
	"github.com/prasetyow/token-service/db"
	"github.com/prasetyow/token-service/internal/auth/handler"
	repo "github.com/prasetyow/token-service/internal/auth/repository/postgres"
	"github.com/prasetyow/token-service/internal/auth/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		slog.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repo.NewPostgresRepository(pool)
	tokenService := service.NewTokenService(cfg.Auth.SigningSecret, cfg.Auth.AccessExpiryMin, cfg.Auth.RefreshExpiryMin)
	userService := service.NewUserService(userRepo, tokenService)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
