package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/tagcheck/internal/api"
	"github.com/JakeFAU/tagcheck/internal/clock/system"
	"github.com/JakeFAU/tagcheck/internal/config"
	"github.com/JakeFAU/tagcheck/internal/id/uuid"
	"github.com/JakeFAU/tagcheck/internal/scans"
	"github.com/JakeFAU/tagcheck/internal/storage/memory"
	"github.com/JakeFAU/tagcheck/internal/storage/postgres"
	"github.com/JakeFAU/tagcheck/internal/storage/sqlite"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tag check HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(*cfgFile)
			if err != nil {
				return err
			}
			defer rt.close()
			return serve(cmd.Context(), rt)
		},
	}
}

func serve(ctx context.Context, rt runtime) error {
	logger := rt.logger
	cfg := rt.cfg

	store, closeStore, err := openScanStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	apiServer := api.NewServer(
		buildDetector(rt),
		store,
		uuid.New(),
		system.New(),
		cfg,
		logger.Named("api"),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func openScanStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (scans.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		store, err := postgres.NewScanStore(ctx, postgres.ScanStoreConfig{
			DSN:      cfg.DB.DSN,
			Table:    cfg.DB.Table,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres scan store: %w", err)
		}
		if cfg.DB.EnsureSchema {
			if err := store.EnsureSchema(ctx); err != nil {
				store.Close()
				return nil, nil, fmt.Errorf("ensure scan schema: %w", err)
			}
		}
		logger.Info("scan history backed by postgres", zap.String("table", cfg.DB.Table))
		return store, store.Close, nil
	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite scan store: %w", err)
		}
		logger.Info("scan history backed by sqlite", zap.String("path", cfg.SQLite.Path))
		return store, store.Close, nil
	default:
		logger.Info("scan history kept in memory")
		return memory.NewScanStore(), func() {}, nil
	}
}
