package models

import "time"

type Feed struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	IsActive      bool       `json:"is_active"`
	IsPublic      bool       `json:"is_public"`
	OwnerID       string     `json:"owner_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	LastCheckOK   *bool      `json:"last_check_ok,omitempty"`
}
