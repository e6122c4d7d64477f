// Package linkextract pulls raw link strings out of the source documents a
// scrape run starts from: PDFs, HTML pages, RSS/Atom feeds and plain text.
package linkextract

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// Kind is a detected source document type.
type Kind string

// Supported document kinds.
const (
	KindPDF  Kind = "pdf"
	KindHTML Kind = "html"
	KindFeed Kind = "feed"
	KindText Kind = "text"
)

// urlPattern finds links in visible text, including bare www. hosts.
var urlPattern = regexp.MustCompile(`(?i)(?:https?://|www\.)[\w.-]+(?::\d{2,5})?(?:/[^\s<]*)?`)

// Extractor implements scrape.LinkExtractor.
type Extractor struct {
	logger *zap.Logger
}

// New builds an Extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger.Named("linkextract")}
}

// ExtractLinks returns raw links in document order. Malformed documents are
// reported wrapping scrape.ErrInvalidDocument.
func (e *Extractor) ExtractLinks(doc []byte, contentType string) ([]string, error) {
	kind, err := Detect(doc, contentType)
	if err != nil {
		return nil, err
	}

	var links []string
	switch kind {
	case KindPDF:
		links, err = pdfLinks(doc)
	case KindFeed:
		links, err = feedLinks(doc)
	case KindHTML:
		links, err = htmlLinks(doc)
	default:
		links = textLinks(string(doc))
	}
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted links",
		zap.String("kind", string(kind)),
		zap.Int("bytes", len(doc)),
		zap.Int("links", len(links)),
	)
	return links, nil
}

// Detect classifies a document by declared type first and content second.
func Detect(doc []byte, contentType string) (Kind, error) {
	trimmed := bytes.TrimLeft(doc, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: empty document", scrape.ErrInvalidDocument)
	}

	mediaType := ""
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = mt
		}
	}

	switch {
	case mediaType == "application/pdf" || bytes.HasPrefix(trimmed, []byte("%PDF-")):
		return KindPDF, nil
	case mediaType == "application/rss+xml" || mediaType == "application/atom+xml" || looksLikeFeed(trimmed):
		return KindFeed, nil
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return KindHTML, nil
	}

	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(trimmed))
	switch {
	case sniffed == "text/html":
		return KindHTML, nil
	case strings.HasPrefix(sniffed, "text/") && utf8.Valid(trimmed):
		return KindText, nil
	}
	return "", fmt.Errorf("%w: unsupported document type %s", scrape.ErrInvalidDocument, sniffed)
}

func looksLikeFeed(doc []byte) bool {
	head := doc[:min(len(doc), 512)]
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(head, []byte("<rss")) ||
		bytes.Contains(head, []byte("<feed")) ||
		bytes.Contains(head, []byte("<rdf:RDF"))
}

func textLinks(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
