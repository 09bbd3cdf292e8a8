// Package scans defines the per-user scan history kept for the dashboard.
package scans

import (
	"context"
	"errors"
	"time"

	"github.com/JakeFAU/tagcheck/internal/detector"
)

// ErrNotFound is returned when a scan does not exist.
var ErrNotFound = errors.New("scan not found")

// DefaultListLimit caps history listings when the caller does not ask for a size.
const DefaultListLimit = 50

// Scan is one recorded check, reduced to per-vendor presence flags.
type Scan struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	UserID         string    `json:"userId"`
	Timestamp      time.Time `json:"timestamp"`
	GTMFound       bool      `json:"gtmFound"`
	GA4Found       bool      `json:"ga4Found"`
	GoogleAdsFound bool      `json:"googleAdsFound"`
	MetaPixelFound bool      `json:"metaPixelFound"`
}

// Store persists scans.
type Store interface {
	RecordScan(ctx context.Context, scan Scan) error
	GetScan(ctx context.Context, id string) (Scan, error)
	// ListScans returns a user's scans, newest first. limit <= 0 selects DefaultListLimit.
	ListScans(ctx context.Context, userID string, limit int) ([]Scan, error)
}

// FromResults builds the history row for a completed check.
func FromResults(id, userID string, at time.Time, res detector.TagResults) Scan {
	return Scan{
		ID:             id,
		URL:            res.URL,
		UserID:         userID,
		Timestamp:      at,
		GTMFound:       res.GTM.Found,
		GA4Found:       res.GA4.Found,
		GoogleAdsFound: res.GoogleAds.Found,
		MetaPixelFound: res.MetaPixel.Found,
	}
}

// EffectiveLimit normalizes a caller supplied listing limit.
func EffectiveLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return DefaultListLimit
	}
	return limit
}
