package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rcardoso/feedbase/internal/middleware"
	"github.com/rcardoso/feedbase/internal/models"
	"github.com/rcardoso/feedbase/internal/repo"
	"github.com/rcardoso/feedbase/internal/validation"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo       *repo.UserRepo
	AdminEmail string
}

// ==========================
// Me
// ==========================
// Me returns the presented view of the authenticated user. The web front-end
// uses it as its page-load guard.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Repo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.Present(user, h.AdminEmail))
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	users, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	items := make([]models.PresentUser, 0, len(users))
	for i := range users {
		items = append(items, models.Present(&users[i], h.AdminEmail))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

// ==========================
// Update User
// ==========================
// UpdateUser replaces the stored name/email of a user record. A user may
// update themselves; the configured admin may update anyone.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	actorID, _ := middleware.GetUserID(r.Context())
	actorEmail, _ := middleware.GetUserEmail(r.Context())
	if actorID != id && actorEmail != h.AdminEmail {
		JSONError(w, "forbidden", http.StatusForbidden)
		return
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	fields := validation.NewSchema(
		validation.Field{Name: "name", Label: "Name", Rules: "required"},
		validation.Field{Name: "email", Label: "Email", Rules: "required,email"},
	).Validate(map[string]string{"name": input.Name, "email": input.Email})
	if len(fields) > 0 {
		JSONFieldErrors(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	user, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user.Name = input.Name
	user.Email = input.Email

	updated, err := h.Repo.Update(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			JSONFieldErrors(w, "validation failed",
				map[string]string{"email": "Email is already taken."}, http.StatusBadRequest)
		case errors.Is(err, repo.ErrNotFound):
			JSONError(w, "user not found", http.StatusNotFound)
		default:
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, models.Present(updated, h.AdminEmail))
}
