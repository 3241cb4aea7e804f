package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rcardoso/feedbase/internal/repo"
)

func newFeedHandler(t *testing.T) (*FeedHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &FeedHandler{
		Repo:       repo.NewFeedRepo(db),
		AdminEmail: "admin@example.com",
	}, mock
}

func postFeed(t *testing.T, h *FeedHandler, actorID, actorEmail string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/feeds", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asUser(req, actorID, actorEmail)
	rr := httptest.NewRecorder()
	h.CreateFeed(rr, req)
	return rr
}

func TestFeedHandler_CreateFeed(t *testing.T) {
	h, mock := newFeedHandler(t)

	mock.ExpectExec(`INSERT INTO feeds`).
		WithArgs(sqlmock.AnyArg(), "Hacker News", "https://news.ycombinator.com/rss", true, false, "u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postFeed(t, h, "u-1", "alice@example.com", map[string]interface{}{
		"name":      "Hacker News",
		"url":       "https://news.ycombinator.com/rss",
		"is_active": true,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateFeed status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// A forged is_public=true from a non-admin degrades to a private feed.
func TestFeedHandler_CreateFeed_NonAdminCannotPublish(t *testing.T) {
	h, mock := newFeedHandler(t)

	mock.ExpectExec(`INSERT INTO feeds`).
		WithArgs(sqlmock.AnyArg(), "Sneaky", "https://example.com/rss", true, false, "u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postFeed(t, h, "u-1", "alice@example.com", map[string]interface{}{
		"name":      "Sneaky",
		"url":       "https://example.com/rss",
		"is_active": true,
		"is_public": true,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateFeed status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		IsPublic bool `json:"is_public"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.IsPublic {
		t.Error("non-admin created a public feed")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFeedHandler_CreateFeed_AdminMayPublish(t *testing.T) {
	h, mock := newFeedHandler(t)

	mock.ExpectExec(`INSERT INTO feeds`).
		WithArgs(sqlmock.AnyArg(), "Announcements", "https://example.com/rss", true, true, "u-9", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postFeed(t, h, "u-9", "admin@example.com", map[string]interface{}{
		"name":      "Announcements",
		"url":       "https://example.com/rss",
		"is_active": true,
		"is_public": true,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateFeed status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// Schema violations never reach the database.
func TestFeedHandler_CreateFeed_ValidationFailure(t *testing.T) {
	h, mock := newFeedHandler(t)

	rr := postFeed(t, h, "u-1", "alice@example.com", map[string]interface{}{
		"name": "",
		"url":  "not a url",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("CreateFeed status: got %d, want 400", rr.Code)
	}
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Errors["name"] != "Name is required." {
		t.Errorf("unexpected name error: %q", out.Errors["name"])
	}
	if out.Errors["url"] != "Invalid URL format." {
		t.Errorf("unexpected url error: %q", out.Errors["url"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFeedHandler_ListFeeds(t *testing.T) {
	h, mock := newFeedHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, url, is_active, is_public`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "url", "is_active", "is_public", "owner_id", "created_at", "last_checked_at", "last_check_ok"}).
			AddRow("f-1", "Mine", "https://a.example/rss", true, false, "u-1", now, nil, nil))

	req := asUser(httptest.NewRequest("GET", "/feeds", nil), "u-1", "alice@example.com")
	rr := httptest.NewRecorder()
	h.ListFeeds(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("ListFeeds status: got %d, want 200", rr.Code)
	}
	var out []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0]["name"] != "Mine" {
		t.Errorf("unexpected feeds: %v", out)
	}
}
