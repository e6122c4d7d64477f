package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/normalize"
	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// Runner executes a batch of candidate URLs.
type Runner interface {
	Run(ctx context.Context, urls []scrape.CandidateURL) scrape.Response
}

// Service is the entry point for callers: it turns raw links or a source
// document into candidates and runs them. Batch-level failures are returned
// before any task is dispatched.
type Service struct {
	normalizer       *normalize.Normalizer
	links            scrape.LinkExtractor
	runner           Runner
	maxDocumentBytes int64
	logger           *zap.Logger
}

// NewService constructs a Service.
func NewService(
	normalizer *normalize.Normalizer,
	links scrape.LinkExtractor,
	runner Runner,
	maxDocumentBytes int64,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		normalizer:       normalizer,
		links:            links,
		runner:           runner,
		maxDocumentBytes: maxDocumentBytes,
		logger:           logger.Named("service"),
	}
}

// MaxDocumentBytes is the largest source document accepted.
func (s *Service) MaxDocumentBytes() int64 { return s.maxDocumentBytes }

// ScrapeURLs normalizes raw links and scrapes them.
func (s *Service) ScrapeURLs(ctx context.Context, raw []string) (scrape.Response, error) {
	candidates := s.normalizer.Normalize(raw)
	if len(candidates) == 0 {
		s.logger.Info("no processable links", zap.Int("raw_links", len(raw)))
		return scrape.Response{}, scrape.ErrNoLinks
	}
	return s.runner.Run(ctx, candidates), nil
}

// ScrapeDocument extracts links from a source document and scrapes them.
func (s *Service) ScrapeDocument(ctx context.Context, doc []byte, contentType string) (scrape.Response, error) {
	if s.maxDocumentBytes > 0 && int64(len(doc)) > s.maxDocumentBytes {
		return scrape.Response{}, fmt.Errorf("%w: %d bytes exceeds limit of %d",
			scrape.ErrDocumentTooLarge, len(doc), s.maxDocumentBytes)
	}
	raw, err := s.links.ExtractLinks(doc, contentType)
	if err != nil {
		if errors.Is(err, scrape.ErrInvalidDocument) {
			return scrape.Response{}, err
		}
		return scrape.Response{}, fmt.Errorf("%w: %v", scrape.ErrInvalidDocument, err)
	}
	return s.ScrapeURLs(ctx, raw)
}
