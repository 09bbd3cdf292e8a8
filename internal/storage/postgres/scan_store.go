// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/tagcheck/internal/scans"
)

const defaultTable = "tag_scans"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ScanStoreConfig controls the Postgres connection pool used for scan history.
type ScanStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Ping(context.Context) error
	Close()
}

// ScanStore writes and reads scan rows in Postgres.
type ScanStore struct {
	pool  pgxPool
	table string
}

// NewScanStore creates a Postgres-backed ScanStore using the provided config.
func NewScanStore(ctx context.Context, cfg ScanStoreConfig) (*ScanStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table, err := tableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &ScanStore{pool: pool, table: table}, nil
}

// NewScanStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewScanStoreWithPool(pool pgxPool, table string) (*ScanStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	table, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &ScanStore{pool: pool, table: table}, nil
}

func tableName(table string) (string, error) {
	if table == "" {
		table = defaultTable
	}
	if !validTableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Ping verifies the database is reachable.
func (s *ScanStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *ScanStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the scan table and its user index when missing.
func (s *ScanStore) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	id                TEXT PRIMARY KEY,
	url               TEXT NOT NULL,
	user_id           TEXT NOT NULL,
	timestamp         TIMESTAMPTZ NOT NULL DEFAULT now(),
	gtm_found         BOOLEAN NOT NULL DEFAULT false,
	ga4_found         BOOLEAN NOT NULL DEFAULT false,
	google_ads_found  BOOLEAN NOT NULL DEFAULT false,
	meta_pixel_found  BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS %[1]s_user_ts_idx ON %[1]s (user_id, timestamp DESC);`, s.table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure scan schema: %w", err)
	}
	return nil
}

// RecordScan inserts a scan row.
func (s *ScanStore) RecordScan(ctx context.Context, scan scans.Scan) error {
	if scan.ID == "" {
		return fmt.Errorf("scan id is required")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	url,
	user_id,
	timestamp,
	gtm_found,
	ga4_found,
	google_ads_found,
	meta_pixel_found
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8
)`, s.table)

	args := []any{
		scan.ID,
		scan.URL,
		scan.UserID,
		scan.Timestamp,
		scan.GTMFound,
		scan.GA4Found,
		scan.GoogleAdsFound,
		scan.MetaPixelFound,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// GetScan retrieves a single scan by ID.
func (s *ScanStore) GetScan(ctx context.Context, id string) (scans.Scan, error) {
	query := fmt.Sprintf(`
SELECT id, url, user_id, timestamp, gtm_found, ga4_found, google_ads_found, meta_pixel_found
FROM %s
WHERE id = $1`, s.table)

	var scan scans.Scan
	err := s.pool.QueryRow(ctx, query, id).Scan(scanDest(&scan)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scans.Scan{}, scans.ErrNotFound
		}
		return scans.Scan{}, fmt.Errorf("get scan: %w", err)
	}
	return scan, nil
}

// ListScans retrieves a user's scans, newest first.
func (s *ScanStore) ListScans(ctx context.Context, userID string, limit int) ([]scans.Scan, error) {
	query := fmt.Sprintf(`
SELECT id, url, user_id, timestamp, gtm_found, ga4_found, google_ads_found, meta_pixel_found
FROM %s
WHERE user_id = $1
ORDER BY timestamp DESC
LIMIT $2`, s.table)

	rows, err := s.pool.Query(ctx, query, userID, scans.EffectiveLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	out := []scans.Scan{}
	for rows.Next() {
		var scan scans.Scan
		if err := rows.Scan(scanDest(&scan)...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return out, nil
}

func scanDest(scan *scans.Scan) []any {
	return []any{
		&scan.ID,
		&scan.URL,
		&scan.UserID,
		&scan.Timestamp,
		&scan.GTMFound,
		&scan.GA4Found,
		&scan.GoogleAdsFound,
		&scan.MetaPixelFound,
	}
}
