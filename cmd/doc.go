// Package cmd defines the CLI for the resume-link-scraper executable.
//
// Architecture overview:
//   - Entry points: "serve" runs the HTTP API (internal/api) and "scrape" runs a single batch from a local document
//     or a list of --url flags, printing the JSON or YAML response to stdout.
//   - Link discovery: internal/linkextract pulls links out of PDF, HTML, RSS/Atom or plain text documents; the
//     normalizer canonicalizes, de-duplicates and truncates them to limits.max_urls.
//   - Fetch pipeline: internal/pipeline enqueues one task per URL and drains the queue with a fixed worker pool.
//     Every fetch acquires a slot from the shared limiter (internal/policy/ratelimit), runs on the shared Colly
//     collector and transport, and on success is handed to the extraction chain (boilerplate, then readability).
//   - Results: each task ends in exactly one success or error result, written at its input position, so the
//     response lists URLs in the order they were discovered.
//   - Configuration & plumbing: Viper populates config from file and SCRAPER_* env vars (a local .env is loaded
//     first); zap provides structured logging with an optional lumberjack file sink; Prometheus metrics are exported
//     on /metrics.
//
// Quick checklist:
//   - Run locally: go run . serve --config config.yaml, or go run . scrape --file resume.pdf.
//   - Tune SCRAPER_FETCH_MAX_CONCURRENCY, SCRAPER_FETCH_DELAY_SECONDS and SCRAPER_FETCH_TIMEOUT_SECONDS for the
//     politeness budget; PORT overrides the listen port on container platforms.
package cmd
