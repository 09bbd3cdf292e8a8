package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/tagcheck/internal/config"
	"github.com/JakeFAU/tagcheck/internal/detector"
	"github.com/JakeFAU/tagcheck/internal/storage/memory"
)

const gtmPage = `<!doctype html><html><head>
<script async src="https://www.googletagmanager.com/gtm.js?id=GTM-TEST42"></script>
</head><body><p>hello</p></body></html>`

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Contains(t, names, "serve")
	require.Contains(t, names, "check")
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestCheckCommandPrintsResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, gtmPage)
	}))
	defer srv.Close()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"check", srv.URL})
	require.NoError(t, root.ExecuteContext(context.Background()))

	var res detector.TagResults
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, srv.URL, res.URL)
	require.Empty(t, res.Error)
	require.True(t, res.GTM.Found)
	require.Equal(t, "GTM-TEST42", res.GTM.ID)
	require.Equal(t, detector.LocationHead, res.GTM.Location)
}

func TestCheckCommandTextOutput(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, gtmPage)
	}))
	defer srv.Close()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"check", "--output", "text", srv.URL})
	require.NoError(t, root.ExecuteContext(context.Background()))

	text := out.String()
	require.Contains(t, text, srv.URL)
	require.Contains(t, text, "Google Tag Manager")
	require.Contains(t, text, "GTM-TEST42")
	require.Contains(t, text, "Meta Pixel")
}

func TestCheckCommandRejectsUnknownOutput(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"check", "--output", "yaml", "example.org"})
	require.ErrorContains(t, root.ExecuteContext(context.Background()), "unknown --output")
}

func TestWriteTextShowsFailureAndLegacyIDs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	writeText(&out, detector.FailedResults("https://down.example", "Failed to fetch website: timeout"))
	require.Contains(t, out.String(), "error: Failed to fetch website: timeout")
	require.Contains(t, out.String(), "not found")

	out.Reset()
	writeText(&out, detector.TagResults{
		URL: "https://legacy.example",
		GA4: detector.TagDetectionResult{
			Found:    true,
			Location: detector.LocationDocument,
			ID:       "UA-12345-1",
			IDType:   detector.IDTypeUniversalAnalytics,
		},
	})
	require.Contains(t, out.String(), "UA-12345-1")
	require.Contains(t, out.String(), "(legacy)")
}

func TestStartSpinnerIgnoresNonFileWriters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	stop := startSpinner(&buf, "checking")
	stop()
	require.Zero(t, buf.Len())
}

func TestCheckCommandRejectsInvalidURL(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"check", "ftp://example.org"})
	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, detector.ErrInvalidURL)
}

func TestCheckCommandRequiresArgument(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"check"})
	require.Error(t, root.ExecuteContext(context.Background()))
}

func TestOpenScanStoreDefaultsToMemory(t *testing.T) {
	t.Parallel()

	store, closeFn, err := openScanStore(context.Background(), config.Config{
		Storage: config.StorageConfig{Driver: config.StorageMemory},
	}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &memory.ScanStore{}, store)
}

func TestOpenScanStoreRejectsBadDSN(t *testing.T) {
	t.Parallel()

	_, _, err := openScanStore(context.Background(), config.Config{
		Storage: config.StorageConfig{Driver: config.StoragePostgres},
		DB:      config.DBConfig{DSN: "://not-a-dsn"},
	}, zap.NewNop())
	require.Error(t, err)
}

func TestOpenScanStoreSQLite(t *testing.T) {
	t.Parallel()

	store, closeFn, err := openScanStore(context.Background(), config.Config{
		Storage: config.StorageConfig{Driver: config.StorageSQLite},
		SQLite:  config.SQLiteConfig{Path: ":memory:"},
	}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	_, err = store.ListScans(context.Background(), "u1", 0)
	require.NoError(t, err)
}

func TestServeStopsWhenContextCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	t.Setenv("TAGCHECK_SERVER_PORT", strconv.Itoa(port))
	t.Setenv("TAGCHECK_LOGGING_DEVELOPMENT", "false")
	rt, err := loadRuntime("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, serve(ctx, rt))
}
