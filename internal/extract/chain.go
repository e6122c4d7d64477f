// Package extract turns fetched HTML into readable text. A Chain tries a
// boilerplate-removal strategy first and a readability scoring strategy second.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/JakeFAU/resume-link-scraper/internal/metrics"
	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// Strategy is one extraction approach. It returns "" when it finds nothing
// and an error only when the input cannot be processed at all.
type Strategy interface {
	scrape.ContentExtractor
	Name() string
}

// ReasonNoContent is reported when every strategy came back empty or short.
const ReasonNoContent = "no main content extracted"

// Chain implements scrape.ContentExtractor over an ordered list of strategies.
type Chain struct {
	strategies []Strategy
	minLength  int
	logger     *zap.Logger
}

// NewChain builds a Chain. A strategy's text counts only when it has at least
// minLength runes; with minLength 0 any non-empty text counts.
func NewChain(minLength int, logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{strategies: strategies, minLength: minLength, logger: logger.Named("extract")}
}

// NewDefaultChain is boilerplate removal followed by readability scoring.
func NewDefaultChain(minLength int, logger *zap.Logger) *Chain {
	return NewChain(minLength, logger, NewBoilerplate(), NewReadability())
}

// Extract validates and decodes the body, then returns the first strategy
// result that is long enough.
func (c *Chain) Extract(body []byte, contentType string) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", c.fail("empty body")
	}
	mediaType, ok := htmlMediaType(contentType, body)
	if !ok {
		return "", c.fail("unsupported content type " + mediaType)
	}
	decoded, err := decodeUTF8(body, contentType)
	if err != nil {
		return "", c.fail(err.Error())
	}
	if bytes.IndexByte(decoded, 0) >= 0 || !utf8.Valid(decoded) {
		return "", c.fail("markup could not be parsed")
	}

	parseFailures := 0
	for _, s := range c.strategies {
		text, err := s.Extract(decoded, "text/html; charset=utf-8")
		if err != nil {
			parseFailures++
			c.logger.Debug("strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		}
		text = NormalizeText(text)
		if n := utf8.RuneCountInString(text); text == "" || n < c.minLength {
			c.logger.Debug("strategy text too short",
				zap.String("strategy", s.Name()),
				zap.Int("runes", n),
				zap.Int("min", c.minLength),
			)
			continue
		}
		metrics.ObserveExtraction(s.Name())
		return text, nil
	}
	if len(c.strategies) > 0 && parseFailures == len(c.strategies) {
		return "", c.fail("markup could not be parsed")
	}
	if looksScriptRendered(decoded) {
		return "", c.fail(ReasonScriptRendered)
	}
	return "", c.fail(ReasonNoContent)
}

func (c *Chain) fail(reason string) error {
	metrics.ObserveExtraction("none")
	return &scrape.ExtractionError{Reason: reason}
}

// htmlMediaType accepts text/html and application/xhtml+xml. Without a
// declared type the body is sniffed and any text type is accepted.
func htmlMediaType(contentType string, body []byte) (string, bool) {
	if strings.TrimSpace(contentType) == "" {
		sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(body))
		return sniffed, strings.HasPrefix(sniffed, "text/")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType, false
	}
	return mediaType, mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func decodeUTF8(body []byte, contentType string) ([]byte, error) {
	if contentType == "" {
		contentType = "text/html"
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	return decoded, nil
}
