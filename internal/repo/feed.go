package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rcardoso/feedbase/internal/models"
)

// ==========================
// FeedRepo
// ==========================
type FeedRepo struct {
	DB *sql.DB
}

func NewFeedRepo(db *sql.DB) *FeedRepo {
	return &FeedRepo{DB: db}
}

// ==========================
// Create Feed
// ==========================
func (r *FeedRepo) Create(ctx context.Context, feed *models.Feed) (*models.Feed, error) {
	feed.ID = uuid.NewString()
	feed.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO feeds (id, name, url, is_active, is_public, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		feed.ID, feed.Name, feed.URL, feed.IsActive, feed.IsPublic, feed.OwnerID, feed.CreatedAt)
	if err != nil {
		return nil, err
	}

	return feed, nil
}

// ==========================
// Get By ID
// ==========================
func (r *FeedRepo) GetByID(ctx context.Context, id string) (*models.Feed, error) {
	query := `
		SELECT id, name, url, is_active, is_public, owner_id, created_at, last_checked_at, last_check_ok
		FROM feeds
		WHERE id = $1
	`

	feed := &models.Feed{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&feed.ID, &feed.Name, &feed.URL, &feed.IsActive, &feed.IsPublic,
		&feed.OwnerID, &feed.CreatedAt, &feed.LastCheckedAt, &feed.LastCheckOK)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return feed, nil
}

// ==========================
// List Visible Feeds
// ==========================
// ListVisible returns the feeds a user may see: their own plus public ones.
func (r *FeedRepo) ListVisible(ctx context.Context, ownerID string) ([]models.Feed, error) {
	query := `
		SELECT id, name, url, is_active, is_public, owner_id, created_at, last_checked_at, last_check_ok
		FROM feeds
		WHERE owner_id = $1 OR is_public
		ORDER BY created_at
	`
	return r.queryFeeds(ctx, query, ownerID)
}

// ==========================
// List Active Feeds
// ==========================
// ListActive returns every active feed, for the background health checker.
func (r *FeedRepo) ListActive(ctx context.Context) ([]models.Feed, error) {
	query := `
		SELECT id, name, url, is_active, is_public, owner_id, created_at, last_checked_at, last_check_ok
		FROM feeds
		WHERE is_active
		ORDER BY created_at
	`
	return r.queryFeeds(ctx, query)
}

// ==========================
// Mark Checked
// ==========================
func (r *FeedRepo) MarkChecked(ctx context.Context, id string, ok bool, at time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE feeds SET last_checked_at = $1, last_check_ok = $2 WHERE id = $3`,
		at, ok, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FeedRepo) queryFeeds(ctx context.Context, query string, args ...interface{}) ([]models.Feed, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []models.Feed
	for rows.Next() {
		var f models.Feed
		if err := rows.Scan(&f.ID, &f.Name, &f.URL, &f.IsActive, &f.IsPublic,
			&f.OwnerID, &f.CreatedAt, &f.LastCheckedAt, &f.LastCheckOK); err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}

	return feeds, rows.Err()
}
