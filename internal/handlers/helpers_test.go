package handlers

import (
	"context"
	"net/http"

	"github.com/lib/pq"

	"github.com/rcardoso/feedbase/internal/middleware"
)

func fakeUniqueViolation() error {
	return &pq.Error{Code: "23505", Constraint: "users_email_key"}
}

// asUser injects the identity the JWT middleware would have extracted.
func asUser(r *http.Request, id, email string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, id)
	ctx = context.WithValue(ctx, middleware.UserEmailKey, email)
	return r.WithContext(ctx)
}
