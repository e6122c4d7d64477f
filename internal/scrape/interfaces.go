package scrape

import (
	"context"
	"time"
)

// Fetcher performs a single GET for a URL. Non-2xx responses and transport
// failures are reported as *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// ContentExtractor turns a fetched body into readable text. Failures are
// reported as *ExtractionError.
type ContentExtractor interface {
	Extract(body []byte, contentType string) (string, error)
}

// LinkExtractor pulls raw link strings out of a source document in document order.
type LinkExtractor interface {
	ExtractLinks(doc []byte, contentType string) ([]string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run and request IDs.
type IDGenerator interface {
	NewID() (string, error)
}
