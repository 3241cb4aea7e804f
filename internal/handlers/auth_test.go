package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcardoso/feedbase/internal/repo"
	"github.com/rcardoso/feedbase/internal/security"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	return &AuthHandler{
		UserRepo:   repo.NewUserRepo(db, hasher),
		Hasher:     hasher,
		Secret:     []byte("test-secret"),
		AdminEmail: "admin@example.com",
	}, mock
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestAuthHandler_Login(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := h.Hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("u-1", "Alice", "alice@example.com", hash, now, now))

	rr := postJSON(t, h.Login, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Email   string `json:"email"`
			IsAdmin bool   `json:"is_admin"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.User.ID != "u-1" || out.User.IsAdmin {
		t.Errorf("unexpected response: token=%q user=%+v", out.Token, out.User)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := h.Hasher.Hash("secret1")
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("u-1", "Alice", "alice@example.com", hash, now, now))

	rr := postJSON(t, h.Login, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-pass",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "invalid credentials" {
		t.Errorf("unexpected message: %q", out.Message)
	}
}

// Unknown email must look exactly like a wrong password.
func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	rr := postJSON(t, h.Login, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret1",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
}

// Schema violations are rejected before touching the database.
func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	h, mock := newAuthHandler(t)

	rr := postJSON(t, h.Login, "/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": "12345",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Login status: got %d, want 400", rr.Code)
	}
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Errors["email"] != "Invalid email format." {
		t.Errorf("unexpected email error: %q", out.Errors["email"])
	}
	if out.Errors["password"] != "Minimum 6 characters." {
		t.Errorf("unexpected password error: %q", out.Errors["password"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Alice", "alice@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postJSON(t, h.Register, "/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret1",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The presented user never carries the hash.
	if _, leaked := out["password_hash"]; leaked {
		t.Error("response leaked password_hash")
	}
	if out["email"] != "alice@example.com" {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Bob", "alice@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(fakeUniqueViolation())

	rr := postJSON(t, h.Register, "/auth/register", map[string]string{
		"name":     "Bob",
		"email":    "alice@example.com",
		"password": "secret1",
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("Register status: got %d, want 409", rr.Code)
	}
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Errors["email"] != "Email is already taken." {
		t.Errorf("unexpected email error: %q", out.Errors["email"])
	}
}
