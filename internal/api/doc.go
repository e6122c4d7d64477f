// Package api hosts the HTTP server, middleware, and REST handlers.
// Notable routes:
//   - GET /health, /healthz and /readyz for liveness and readiness probes.
//   - GET /metrics for Prometheus scraping.
//   - POST /v1/scrape to scrape a JSON list of links.
//   - POST /v1/scrape/document to extract links from an uploaded document
//     (multipart field "document", or the raw request body) and scrape them.
package api
