// Package main hosts the tagcheck service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes health, metrics, the tag check endpoint, and the scan-history
//     endpoints used by the dashboard. Requests are validated before a check is run.
//   - Detection: internal/detector normalizes the submitted URL, answers well-known domains from a static
//     table, and otherwise performs exactly one page fetch through the Colly-based fetcher before matching
//     vendor signatures against the markup.
//   - Persistence: checks made on behalf of a user (X-User-ID header) are recorded in the configured scan
//     store (memory or Postgres). Failed checks are not recorded.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides structured logging;
//     Prometheus metrics are exported via the metrics middleware and /metrics handler.
//
// Quick checklist:
//   - Configure env vars: TAGCHECK_SERVER_PORT, TAGCHECK_DETECTOR_TIMEOUT_SECONDS, TAGCHECK_STORAGE_DRIVER,
//     TAGCHECK_DB_DSN, TAGCHECK_AUTH_ENABLED and TAGCHECK_AUTH_API_KEY.
//   - Run locally: go run ./cmd/tagcheck serve --config config.yaml
//   - One-off check: go run ./cmd/tagcheck check example.org
package main
