// Package scrape defines the core types shared by the link scraping pipeline:
// candidate URLs, per-position tasks, fetched pages, the tagged per-URL result
// and the capabilities (fetcher, content extractor, link extractor) that the
// pipeline composes.
package scrape
