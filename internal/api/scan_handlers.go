package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/tagcheck/internal/scans"
)

func (s *Server) getScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scan_id")
	scan, err := s.scans.GetScan(r.Context(), scanID)
	if err != nil {
		if errors.Is(err, scans.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scan not found")
			return
		}
		s.logger.Error("get scan", zap.String("scan_id", scanID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load scan")
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

func (s *Server) listUserScans(w http.ResponseWriter, r *http.Request) {
	s.listScans(w, r, chi.URLParam(r, "user_id"))
}

func (s *Server) listOwnScans(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+userIDHeader+" header")
		return
	}
	s.listScans(w, r, userID)
}

func (s *Server) listScans(w http.ResponseWriter, r *http.Request, userID string) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	list, err := s.scans.ListScans(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error("list scans", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}
	if list == nil {
		list = []scans.Scan{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId": userID,
		"scans":  list,
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return scans.DefaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid limit")
	}
	return scans.EffectiveLimit(n), nil
}
