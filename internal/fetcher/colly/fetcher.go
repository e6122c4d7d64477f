// Package collyfetcher implements scrape.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/metrics"
	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

const (
	acceptHeader         = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.8"
)

// Config controls collector and transport behavior.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	MaxRedirects   int
	MaxBodyBytes   int
}

// Fetcher implements scrape.Fetcher on one shared Colly collector and HTTP
// transport. Each fetch runs on a clone so callbacks stay per request.
type Fetcher struct {
	cfg           Config
	transport     *http.Transport
	baseCollector *colly.Collector
	logger        *zap.Logger
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 12 * time.Second
	}
	if cfg.ConnectTimeout <= 0 || cfg.ConnectTimeout > cfg.RequestTimeout {
		cfg.ConnectTimeout = cfg.RequestTimeout
	}

	opts := []colly.CollectorOption{
		colly.Async(false),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	if cfg.MaxBodyBytes > 0 {
		opts = append(opts, colly.MaxBodySize(cfg.MaxBodyBytes))
	}
	c := colly.NewCollector(opts...)

	// The backend client is shared by every clone, so it is configured once here.
	transport := newHTTPTransport(cfg.ConnectTimeout)
	c.WithTransport(transport)
	c.SetRequestTimeout(cfg.RequestTimeout)
	c.SetRedirectHandler(redirectPolicy(cfg.MaxRedirects))

	return &Fetcher{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
		logger:        logger.Named("fetcher"),
	}
}

// Fetch executes a single HTTP GET. The request is not interrupted by ctx once
// started; it is bounded by the configured timeouts instead.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (scrape.Page, error) {
	if err := ctx.Err(); err != nil {
		return scrape.Page{}, &scrape.FetchError{Kind: scrape.ErrorKindCanceled, URL: rawURL, Err: err}
	}

	var (
		page     scrape.Page
		fetchErr error
	)
	start := time.Now()
	collector := f.baseCollector.Clone()
	f.configureCollectorHooks(collector, &page, &fetchErr)

	if err := collector.Visit(rawURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	duration := time.Since(start)

	if fetchErr != nil {
		classified := classify(rawURL, fetchErr, f.cfg.RequestTimeout, f.cfg.ConnectTimeout)
		f.observe(rawURL, string(classified.Kind), 0, duration, classified)
		return scrape.Page{}, classified
	}
	if page.StatusCode < 200 || page.StatusCode > 299 {
		statusErr := &scrape.FetchError{
			Kind:       scrape.ErrorKindHTTPStatus,
			URL:        rawURL,
			StatusCode: page.StatusCode,
		}
		f.observe(rawURL, string(statusErr.Kind), len(page.Body), duration, statusErr)
		return scrape.Page{}, statusErr
	}

	page.URL = rawURL
	f.observe(rawURL, "success", len(page.Body), duration, nil)
	return page, nil
}

// Close releases idle keep-alive connections held by the shared transport.
func (f *Fetcher) Close() {
	f.transport.CloseIdleConnections()
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, page *scrape.Page, fetchErr *error) {
	hooks.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHeader)
		r.Headers.Set("Accept-Language", acceptLanguageHeader)
	})

	hooks.OnResponse(func(r *colly.Response) {
		*page = scrape.Page{
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: utf8ContentType(r.Headers.Get("Content-Type")),
			Body:        append([]byte(nil), r.Body...),
		}
	})

	hooks.OnError(func(_ *colly.Response, err error) {
		*fetchErr = err
	})
}

func (f *Fetcher) observe(rawURL, outcome string, size int, duration time.Duration, err error) {
	metrics.ObserveFetch(rawURL, outcome, size, duration)
	if err != nil {
		f.logger.Debug("fetch failed",
			zap.String("url", rawURL),
			zap.String("kind", outcome),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}
	f.logger.Debug("fetch succeeded",
		zap.String("url", rawURL),
		zap.Int("bytes", size),
		zap.Duration("duration", duration),
	)
}

// utf8ContentType rewrites a declared charset to utf-8: Colly has already
// transcoded such bodies.
func utf8ContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	if _, ok := params["charset"]; !ok {
		return mediaType
	}
	return mime.FormatMediaType(mediaType, map[string]string{"charset": "utf-8"})
}

func redirectPolicy(maxRedirects int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		scheme := strings.ToLower(req.URL.Scheme)
		if scheme != "http" && scheme != "https" {
			return errors.New("redirect to unsupported scheme " + scheme)
		}
		return nil
	}
}

func newHTTPTransport(connectTimeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
