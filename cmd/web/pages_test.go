package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// fakeAPI serves just enough of the backend for page handlers.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] == "alice@example.com" && in["password"] == "secret123" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "tok-abc",
				"user":  webUser{ID: "u-1", Email: "alice@example.com", Name: "Alice"},
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	})
	mux.HandleFunc("/feeds", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "f-1", "name": "Go Blog", "url": "https://go.dev/blog/feed.atom", "is_active": true},
		})
	})
	return httptest.NewServer(mux)
}

func postForm(handler http.HandlerFunc, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLoginSubmit_Success(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	rec := postForm(loginSubmit(srv.URL), "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"secret123"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/feeds" {
		t.Fatalf("expected redirect to /feeds, got %s", loc)
	}

	var gotToken bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.Value == "tok-abc" {
			gotToken = true
		}
	}
	if !gotToken {
		t.Fatal("expected auth cookie to be set")
	}
}

func TestLoginSubmit_BadCredentials(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	rec := postForm(loginSubmit(srv.URL), "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"wrong-pass"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "invalid credentials") {
		t.Fatalf("expected API message in page, got: %s", body)
	}
	// The form keeps the email but never echoes the failed password.
	if !strings.Contains(body, "alice@example.com") {
		t.Fatal("expected email to be preserved")
	}
	if strings.Contains(body, "wrong-pass") {
		t.Fatal("password must not be echoed back")
	}
}

func TestLoginSubmit_LocalValidation(t *testing.T) {
	// No API at this address; local validation must fail before any request.
	rec := postForm(loginSubmit("http://127.0.0.1:1"), "/login", url.Values{
		"email":    {"not-an-email"},
		"password": {""},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid email format.") {
		t.Fatalf("expected email error in page, got: %s", body)
	}
	if !strings.Contains(body, "Password is required.") {
		t.Fatalf("expected password error in page, got: %s", body)
	}
}

func TestFeedsList_RendersFeeds(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	req := httptest.NewRequest("GET", "/feeds", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "tok-abc"})
	rec := httptest.NewRecorder()
	feedsList(srv.URL)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Go Blog") {
		t.Fatalf("expected feed name in page, got: %s", rec.Body.String())
	}
}

func TestFeedsList_ExpiredToken(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	req := httptest.NewRequest("GET", "/feeds", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	feedsList(srv.URL)(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Fatalf("expected login redirect, got %s", loc)
	}
}
