package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rcardoso/feedbase/internal/config"
	"github.com/rcardoso/feedbase/internal/db"
	"github.com/rcardoso/feedbase/internal/handlers"
	"github.com/rcardoso/feedbase/internal/repo"
	"github.com/rcardoso/feedbase/internal/scheduler"
	"github.com/rcardoso/feedbase/internal/security"
)

func main() {

	// Load configuration
	cfg := config.Load()

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set in prod")
	}

	if cfg.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	log.Println("Successfully connected to the database")

	if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repos and handlers
	hasher := security.NewBcryptHasher(0)
	userRepo := repo.NewUserRepo(database, hasher)
	feedRepo := repo.NewFeedRepo(database)

	authHandler := &handlers.AuthHandler{
		UserRepo:   userRepo,
		Hasher:     hasher,
		Secret:     []byte(cfg.JWTSecret),
		AdminEmail: cfg.AdminEmail,
		TokenTTL:   time.Duration(cfg.JWTExpireHours) * time.Hour,
	}
	userHandler := &handlers.UserHandler{Repo: userRepo, AdminEmail: cfg.AdminEmail}
	feedHandler := &handlers.FeedHandler{Repo: feedRepo, AdminEmail: cfg.AdminEmail}

	// Background feed checker
	if cr := scheduler.NewChecker(feedRepo).Run(cfg.FeedCheckInterval); cr != nil {
		defer cr.Stop()
	}

	router := newRouter(cfg, authHandler, userHandler, feedHandler)

	// Start server LAST
	log.Println("Starting server on :" + cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
