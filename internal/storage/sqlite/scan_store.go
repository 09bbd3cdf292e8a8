// Package sqlite keeps scan history in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JakeFAU/tagcheck/internal/scans"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tag_scans (
	id                TEXT PRIMARY KEY,
	url               TEXT NOT NULL,
	user_id           TEXT NOT NULL,
	scanned_at        INTEGER NOT NULL,
	gtm_found         INTEGER NOT NULL DEFAULT 0,
	ga4_found         INTEGER NOT NULL DEFAULT 0,
	google_ads_found  INTEGER NOT NULL DEFAULT 0,
	meta_pixel_found  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS tag_scans_user_ts_idx ON tag_scans (user_id, scanned_at DESC);`

const selectColumns = `id, url, user_id, scanned_at, gtm_found, ga4_found, google_ads_found, meta_pixel_found`

// ScanStore implements scans.Store with SQLite.
type ScanStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*ScanStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// ":memory:" databases live per connection.
	db.SetMaxOpenConns(1)

	store := NewScanStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewScanStore wraps an existing database handle.
func NewScanStore(db *sql.DB) *ScanStore {
	return &ScanStore{db: db}
}

// EnsureSchema creates the scan table and index when missing.
func (s *ScanStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *ScanStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *ScanStore) Close() {
	_ = s.db.Close()
}

// RecordScan inserts a scan row.
func (s *ScanStore) RecordScan(ctx context.Context, scan scans.Scan) error {
	if scan.ID == "" {
		return errors.New("scan id is required")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tag_scans ("+selectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		scan.ID, scan.URL, scan.UserID, scan.Timestamp.UTC().UnixMicro(),
		scan.GTMFound, scan.GA4Found, scan.GoogleAdsFound, scan.MetaPixelFound,
	)
	if err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	return nil
}

// GetScan retrieves a scan by its ID.
func (s *ScanStore) GetScan(ctx context.Context, id string) (scans.Scan, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM tag_scans WHERE id = ?", id)
	scan, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scans.Scan{}, scans.ErrNotFound
		}
		return scans.Scan{}, fmt.Errorf("failed to get scan: %w", err)
	}
	return scan, nil
}

// ListScans retrieves a user's scans, newest first.
func (s *ScanStore) ListScans(ctx context.Context, userID string, limit int) ([]scans.Scan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM tag_scans WHERE user_id = ? ORDER BY scanned_at DESC, id DESC LIMIT ?",
		userID, scans.EffectiveLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	out := []scans.Scan{}
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scans: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(r rowScanner) (scans.Scan, error) {
	var (
		scan      scans.Scan
		scannedAt int64
	)
	err := r.Scan(
		&scan.ID, &scan.URL, &scan.UserID, &scannedAt,
		&scan.GTMFound, &scan.GA4Found, &scan.GoogleAdsFound, &scan.MetaPixelFound,
	)
	if err != nil {
		return scans.Scan{}, err
	}
	scan.Timestamp = time.UnixMicro(scannedAt).UTC()
	return scan, nil
}
