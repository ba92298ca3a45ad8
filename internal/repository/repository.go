package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/Dan9191/pocket-property/internal/models"
)

// Repository exports search history to Postgres
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateSchema creates the history table when it does not exist yet
func (r *Repository) CreateSchema(ctx context.Context) error {
	query := `
		CREATE SCHEMA IF NOT EXISTS pocket_property;
		CREATE TABLE IF NOT EXISTS pocket_property.search_history (
			id            BIGSERIAL PRIMARY KEY,
			session_id    TEXT        NOT NULL,
			search_term   TEXT        NOT NULL,
			results_found INTEGER     NOT NULL,
			average_price TEXT        NOT NULL,
			searched_at   TIMESTAMPTZ NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create search history schema: %w", err)
	}
	return nil
}

// ArchiveSearch stores one history entry of a session
func (r *Repository) ArchiveSearch(ctx context.Context, sessionID string, entry models.SearchHistoryEntry) error {
	resultsFound, err := strconv.Atoi(entry.ResultsFound)
	if err != nil {
		return fmt.Errorf("invalid results count %q: %w", entry.ResultsFound, err)
	}
	query := `
		INSERT INTO pocket_property.search_history (session_id, search_term, results_found, average_price, searched_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err = r.db.ExecContext(ctx, query, sessionID, entry.SearchTerm, resultsFound, entry.AveragePrice, entry.SearchedAt)
	if err != nil {
		return fmt.Errorf("failed to archive search: %w", err)
	}
	return nil
}
