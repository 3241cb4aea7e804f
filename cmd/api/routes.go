package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcardoso/feedbase/internal/config"
	"github.com/rcardoso/feedbase/internal/handlers"
	"github.com/rcardoso/feedbase/internal/middleware"
)

func newRouter(
	cfg config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	feedHandler *handlers.FeedHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public auth endpoints, rate limited against credential stuffing
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth([]byte(cfg.JWTSecret)))
		r.Get("/me", userHandler.Me)
		r.Get("/users", userHandler.ListUsers)
		r.Put("/users/{id}", userHandler.UpdateUser)
		r.Post("/feeds", feedHandler.CreateFeed)
		r.Get("/feeds", feedHandler.ListFeeds)
	})

	return r
}
