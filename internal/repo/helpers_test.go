package repo

import "github.com/lib/pq"

// fakeUniqueViolation mimics the driver error Postgres returns when the
// unique index on users.email rejects a write.
func fakeUniqueViolation() error {
	return &pq.Error{Code: uniqueViolation, Constraint: "users_email_key"}
}
