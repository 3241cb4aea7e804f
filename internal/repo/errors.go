package repo

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a create or update would leave two
	// user records with the same email.
	ErrDuplicateEmail = errors.New("email is already taken")
)
