// Package memory provides in-memory stores for development and tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/JakeFAU/tagcheck/internal/scans"
)

// ScanStore keeps scan history in process memory.
type ScanStore struct {
	mu     sync.RWMutex
	scans  map[string]scans.Scan
	byUser map[string][]string
}

// NewScanStore constructs a ScanStore.
func NewScanStore() *ScanStore {
	return &ScanStore{
		scans:  make(map[string]scans.Scan),
		byUser: make(map[string][]string),
	}
}

// RecordScan stores a scan. IDs must be unique.
func (s *ScanStore) RecordScan(_ context.Context, scan scans.Scan) error {
	if scan.ID == "" {
		return errors.New("scan id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.scans[scan.ID]; exists {
		return errors.New("scan already exists")
	}
	s.scans[scan.ID] = scan
	s.byUser[scan.UserID] = append(s.byUser[scan.UserID], scan.ID)
	return nil
}

// GetScan fetches a scan by ID.
func (s *ScanStore) GetScan(_ context.Context, id string) (scans.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scan, ok := s.scans[id]
	if !ok {
		return scans.Scan{}, scans.ErrNotFound
	}
	return scan, nil
}

// ListScans returns a copy of the user's scans, newest first.
func (s *ScanStore) ListScans(_ context.Context, userID string, limit int) ([]scans.Scan, error) {
	s.mu.RLock()
	ids := s.byUser[userID]
	out := make([]scans.Scan, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.scans[id])
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit = scans.EffectiveLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
