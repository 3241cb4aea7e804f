package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcardoso/feedbase/internal/config"
	"github.com/rcardoso/feedbase/internal/handlers"
	"github.com/rcardoso/feedbase/internal/repo"
	"github.com/rcardoso/feedbase/internal/security"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{JWTSecret: "test-secret"}
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	userRepo := repo.NewUserRepo(db, hasher)
	feedRepo := repo.NewFeedRepo(db)

	return newRouter(cfg,
		&handlers.AuthHandler{UserRepo: userRepo, Hasher: hasher, Secret: []byte(cfg.JWTSecret)},
		&handlers.UserHandler{Repo: userRepo},
		&handlers.FeedHandler{Repo: feedRepo},
	)
}

func TestRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("health status: got %d, want 200", rr.Code)
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)
	for _, path := range []string{"/me", "/users", "/feeds"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: got %d, want 401", path, rr.Code)
		}
	}
}

func TestRouter_Metrics(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("metrics status: got %d, want 200", rr.Code)
	}
}
