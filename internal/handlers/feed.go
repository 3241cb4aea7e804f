package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rcardoso/feedbase/internal/middleware"
	"github.com/rcardoso/feedbase/internal/models"
	"github.com/rcardoso/feedbase/internal/repo"
	"github.com/rcardoso/feedbase/internal/validation"
)

// ==========================
// FeedHandler
// ==========================
type FeedHandler struct {
	Repo       *repo.FeedRepo
	AdminEmail string
}

// ==========================
// Create Feed
// ==========================
// CreateFeed persists a new feed provider owned by the caller. The is_public
// flag is admin-only: the client renders the toggle disabled for non-admins,
// and regardless of what the request carries it is forced off here for
// anyone but the configured admin.
func (h *FeedHandler) CreateFeed(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name     string `json:"name"`
		URL      string `json:"url"`
		IsActive bool   `json:"is_active"`
		IsPublic bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	fields := validation.FeedSchema().Validate(map[string]string{
		"name": input.Name,
		"url":  input.URL,
	})
	if len(fields) > 0 {
		JSONFieldErrors(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	actorEmail, _ := middleware.GetUserEmail(r.Context())
	isAdmin := h.AdminEmail != "" && actorEmail == h.AdminEmail
	if !isAdmin {
		input.IsPublic = false
	}

	feed, err := h.Repo.Create(r.Context(), &models.Feed{
		Name:     input.Name,
		URL:      input.URL,
		IsActive: input.IsActive,
		IsPublic: input.IsPublic,
		OwnerID:  ownerID,
	})
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, feed)
}

// ==========================
// List Feeds
// ==========================
// ListFeeds returns the feeds visible to the caller: their own plus public ones.
func (h *FeedHandler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	feeds, err := h.Repo.ListVisible(r.Context(), ownerID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if feeds == nil {
		feeds = []models.Feed{}
	}

	writeJSON(w, http.StatusOK, feeds)
}
