package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/tagcheck/internal/scans"
)

var scanColumns = []string{
	"id", "url", "user_id", "timestamp", "gtm_found", "ga4_found", "google_ads_found", "meta_pixel_found",
}

func TestRecordScanInsertsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	scan := scans.Scan{
		ID:        "0190c1a2-scan",
		URL:       "https://example.com",
		UserID:    "42",
		Timestamp: now,
		GTMFound:  true,
		GA4Found:  true,
	}

	mock.ExpectExec("INSERT INTO tag_scans").
		WithArgs(scan.ID, scan.URL, scan.UserID, scan.Timestamp, true, true, false, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.RecordScan(context.Background(), scan))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordScanRequiresID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "scans")
	require.NoError(t, err)
	require.Error(t, store.RecordScan(context.Background(), scans.Scan{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordScanWrapsExecError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO tag_scans").WillReturnError(errors.New("connection reset"))
	err = store.RecordScan(context.Background(), scans.Scan{ID: "x", Timestamp: time.Now()})
	require.ErrorContains(t, err, "insert scan")
}

func TestGetScan(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "")
	require.NoError(t, err)

	now := time.Unix(1700000500, 0).UTC()
	mock.ExpectQuery("FROM tag_scans").
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows(scanColumns).
			AddRow("s1", "https://example.com", "42", now, false, false, true, true))

	got, err := store.GetScan(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, scans.Scan{
		ID:             "s1",
		URL:            "https://example.com",
		UserID:         "42",
		Timestamp:      now,
		GoogleAdsFound: true,
		MetaPixelFound: true,
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScanNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "")
	require.NoError(t, err)

	mock.ExpectQuery("FROM tag_scans").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = store.GetScan(context.Background(), "missing")
	require.ErrorIs(t, err, scans.ErrNotFound)
}

func TestListScans(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "")
	require.NoError(t, err)

	newer := time.Unix(1700000900, 0).UTC()
	older := time.Unix(1700000100, 0).UTC()
	mock.ExpectQuery("WHERE user_id").
		WithArgs("42", scans.DefaultListLimit).
		WillReturnRows(pgxmock.NewRows(scanColumns).
			AddRow("s2", "https://b.example", "42", newer, true, false, false, false).
			AddRow("s1", "https://a.example", "42", older, false, true, false, false))

	got, err := store.ListScans(context.Background(), "42", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "s2", got[0].ID)
	require.True(t, got[0].GTMFound)
	require.True(t, got[1].GA4Found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "history")
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS history").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewScanStoreValidation(t *testing.T) {
	t.Parallel()

	_, err := NewScanStore(context.Background(), ScanStoreConfig{})
	require.Error(t, err)

	_, err = NewScanStoreWithPool(nil, "")
	require.Error(t, err)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	_, err = NewScanStoreWithPool(mock, "bad;table")
	require.Error(t, err)
}

func TestPingWrapsPoolError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewScanStoreWithPool(mock, "")
	require.NoError(t, err)

	mock.ExpectPing()
	require.NoError(t, store.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = store.Ping(context.Background())
	require.ErrorContains(t, err, "ping postgres")
	require.NoError(t, mock.ExpectationsWereMet())
}
