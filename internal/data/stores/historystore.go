// Package stores contains the SQLite-backed cache stores.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dermalab/derma/internal/core/history"
	"github.com/dermalab/derma/internal/data/db"
)

// HistoryStore caches the last fetched history list so it can be shown
// offline. It is refreshed wholesale after every successful server fetch.
type HistoryStore struct {
	db *db.DB
}

// NewHistoryStore creates a store over the given database.
func NewHistoryStore(database *db.DB) *HistoryStore {
	return &HistoryStore{db: database}
}

// Replace swaps the cached list for records atomically.
func (s *HistoryStore) Replace(ctx context.Context, records []history.Record) error {
	now := time.Now().Unix()

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM history_cache`); err != nil {
			return fmt.Errorf("clear history cache: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO history_cache (id, disease, confidence, image_url, timestamp, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, rec := range records {
			_, err := stmt.ExecContext(ctx,
				rec.ID, rec.Disease, rec.Confidence, rec.ImageURL, rec.Timestamp.Unix(), now)
			if err != nil {
				return fmt.Errorf("insert record %d: %w", rec.ID, err)
			}
		}
		return nil
	})
}

// List returns the cached records, most recent first.
func (s *HistoryStore) List(ctx context.Context) ([]history.Record, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, disease, confidence, image_url, timestamp
		FROM history_cache
		ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []history.Record
	for rows.Next() {
		var rec history.Record
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.Disease, &rec.Confidence, &rec.ImageURL, &ts); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Timestamp = history.Timestamp{Time: time.Unix(ts, 0)}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Delete drops one cached record by id.
func (s *HistoryStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM history_cache WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete cached record %d: %w", id, err)
	}
	return nil
}

// Count returns the number of cached records.
func (s *HistoryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM history_cache`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count history cache: %w", err)
	}
	return count, nil
}
