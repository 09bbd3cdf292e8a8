package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/tagcheck/internal/detector"
	"github.com/JakeFAU/tagcheck/internal/metrics"
	"github.com/JakeFAU/tagcheck/internal/scans"
)

const (
	msgURLRequired = "URL is required"
	msgInvalidURL  = "Invalid URL format"
)

type checkRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

func (s *Server) checkTags(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[checkRequest](r)
	if err != nil {
		var be *bindError
		if errors.As(err, &be) && be.Field == "url" && be.Tag == "required" {
			writeError(w, http.StatusBadRequest, msgURLRequired)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	target := strings.TrimSpace(req.URL)
	if target == "" {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}

	res, err := s.checker.Check(r.Context(), target)
	if err != nil {
		if errors.Is(err, detector.ErrInvalidURL) {
			writeError(w, http.StatusBadRequest, msgInvalidURL)
			return
		}
		s.logger.Error("tag check failed", zap.String("url", target), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "tag check failed")
		return
	}

	if userID := strings.TrimSpace(r.Header.Get(userIDHeader)); userID != "" && !res.Failed() {
		s.recordScan(r.Context(), userID, res)
	}
	writeJSON(w, http.StatusOK, res)
}

// recordScan stores a history row. Failures are logged and never fail the check.
func (s *Server) recordScan(ctx context.Context, userID string, res detector.TagResults) {
	if s.scans == nil {
		return
	}
	id, err := s.idGen.NewID()
	if err != nil {
		s.logger.Error("generate scan id", zap.Error(err))
		metrics.ObserveScanRecorded(false)
		return
	}
	scan := scans.FromResults(id, userID, s.clock.Now(), res)
	if err := s.scans.RecordScan(ctx, scan); err != nil {
		s.logger.Error("record scan",
			zap.String("scan_id", id),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		metrics.ObserveScanRecorded(false)
		return
	}
	metrics.ObserveScanRecorded(true)
}
