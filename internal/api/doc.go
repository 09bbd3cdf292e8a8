// Package api hosts the HTTP server, middleware, and REST handlers.
// Notable routes:
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - POST /api/check-tags to run a tag check.
//   - GET /api/scans, /api/scans/{scan_id} and /api/users/{user_id}/scans for
//     the scan-history dashboard.
//
// Authentication is handled upstream; the authenticated user arrives in the
// X-User-ID header and is only used to attribute scan history.
package api
