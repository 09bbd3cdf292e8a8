package detector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Check outcomes reported to the Recorder.
const (
	OutcomeKnown   = "known"
	OutcomeFetched = "fetched"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

const (
	defaultTimeout = 10 * time.Second
	minTimeout     = time.Second
	maxTimeout     = 15 * time.Second
)

// Config controls detector behavior.
type Config struct {
	// Timeout bounds the single page fetch. Values outside [1s, 15s] are clamped;
	// zero selects 10s.
	Timeout time.Duration
	// UseKnownSites enables the static answer table for well-known domains.
	UseKnownSites bool
}

// Detector runs tag checks against submitted URLs.
type Detector struct {
	fetcher  Fetcher
	cfg      Config
	recorder Recorder
	logger   *zap.Logger
}

// New builds a Detector. recorder and logger may be nil.
func New(fetcher Fetcher, cfg Config, recorder Recorder, logger *zap.Logger) *Detector {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Timeout = clampTimeout(cfg.Timeout)
	return &Detector{
		fetcher:  fetcher,
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
	}
}

func clampTimeout(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return defaultTimeout
	case d < minTimeout:
		return minTimeout
	case d > maxTimeout:
		return maxTimeout
	default:
		return d
	}
}

// Check inspects rawURL for tracking tags.
//
// The only Go error returned wraps ErrInvalidURL. A page that cannot be
// fetched yields a TagResults with Error set and every vendor not found.
func (d *Detector) Check(ctx context.Context, rawURL string) (TagResults, error) {
	pageURL, err := ParseTarget(rawURL)
	if err != nil {
		d.recorder.ObserveCheck(OutcomeInvalid)
		return TagResults{}, err
	}
	logger := d.logger.With(zap.String("url", pageURL))

	if d.cfg.UseKnownSites {
		domain := NormalizeDomain(rawURL)
		if res, ok := KnownSite(domain, pageURL); ok {
			logger.Debug("answered from known-site table", zap.String("domain", domain))
			d.recorder.ObserveCheck(OutcomeKnown)
			d.observeDetections(res)
			return res, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()
	resp, err := d.fetcher.Fetch(fetchCtx, FetchRequest{URL: pageURL, Headers: browserHeaders()})
	if err != nil {
		logger.Warn("page fetch failed", zap.Error(err))
		d.recorder.ObserveCheck(OutcomeFailed)
		return FailedResults(pageURL, fmt.Sprintf("Failed to fetch website: %v", err)), nil
	}

	res, hits := analyze(pageURL, string(resp.Body))
	fields := []zap.Field{
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(resp.Body)),
		zap.Duration("fetch_duration", resp.Duration),
	}
	for vendor, ruleName := range hits {
		fields = append(fields, zap.String(string(vendor), ruleName))
	}
	logger.Info("page analyzed", fields...)
	d.recorder.ObserveCheck(OutcomeFetched)
	d.observeDetections(res)
	return res, nil
}

func (d *Detector) observeDetections(res TagResults) {
	for _, v := range Vendors {
		if res.Result(v).Found {
			d.recorder.ObserveDetection(string(v))
		}
	}
}

func browserHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	return h
}
