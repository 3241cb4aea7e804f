package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rcardoso/feedbase/internal/models"
	"github.com/rcardoso/feedbase/internal/repo"
	"github.com/rcardoso/feedbase/internal/security"
	"github.com/rcardoso/feedbase/internal/validation"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo   *repo.UserRepo
	Hasher     *security.BcryptHasher
	Secret     []byte
	AdminEmail string
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	fields := validation.RegisterSchema().Validate(map[string]string{
		"name":     input.Name,
		"email":    input.Email,
		"password": input.Password,
	})
	if len(fields) > 0 {
		JSONFieldErrors(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			JSONFieldErrors(w, "validation failed",
				map[string]string{"email": "Email is already taken."}, http.StatusConflict)
			return
		}
		log.Printf("Register: create user failed: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, models.Present(user, h.AdminEmail))
}

// ==========================
// Login
// ==========================
// Login verifies credentials and returns {user, token}. Unknown email and
// wrong password produce the same response to avoid user enumeration.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	fields := validation.LoginSchema().Validate(map[string]string{
		"email":    input.Email,
		"password": input.Password,
	})
	if len(fields) > 0 {
		JSONFieldErrors(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByEmail(r.Context(), input.Email)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Printf("Login: get user failed: %v", err)
		}
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !h.Hasher.Verify(input.Password, user.PasswordHash) {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	ttl := h.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": signed,
		"user":  models.Present(user, h.AdminEmail),
	})
}
