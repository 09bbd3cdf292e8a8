package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/tagcheck/internal/config"
	"github.com/JakeFAU/tagcheck/internal/detector"
	collyfetcher "github.com/JakeFAU/tagcheck/internal/fetcher/colly"
	"github.com/JakeFAU/tagcheck/internal/logging"
	"github.com/JakeFAU/tagcheck/internal/metrics"
)

// newRootCmd creates the root command and its subcommands.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "tagcheck",
		Short: "Detect marketing and analytics tags on websites.",
		Long: `tagcheck reports whether Google Tag Manager, Google Analytics 4,
Google Ads conversion tracking and the Meta Pixel are installed on a page.
Run it as an HTTP service or check a single URL from the terminal.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (env TAGCHECK_* overrides)")

	cmd.AddCommand(newServeCmd(&cfgFile))
	cmd.AddCommand(newCheckCmd(&cfgFile))
	return cmd
}

// runtime bundles what every subcommand needs.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

func loadRuntime(cfgFile string) (runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return runtime{}, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Development: cfg.Logging.Development,
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		return runtime{}, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return runtime{cfg: cfg, logger: logger}, nil
}

func (rt runtime) close() {
	_ = rt.logger.Sync()
}

func buildDetector(rt runtime) *detector.Detector {
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    rt.cfg.Detector.UserAgent,
		Timeout:      rt.cfg.FetchTimeout(),
		MaxRedirects: rt.cfg.Detector.MaxRedirects,
		MaxBodySize:  rt.cfg.Detector.MaxBodyBytes,
	})
	return detector.New(
		fetcher,
		detector.Config{
			Timeout:       rt.cfg.FetchTimeout(),
			UseKnownSites: rt.cfg.Detector.KnownSites,
		},
		metrics.NewRecorder(),
		rt.logger.Named("detector"),
	)
}
