// Package normalize turns raw link strings into the ordered, de-duplicated
// list of candidate URLs a scrape run works on.
package normalize

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// trailingPunctuation is what text-scraped links tend to drag along from prose.
const trailingPunctuation = `)],.;:>"'`

// Normalizer filters, canonicalizes, de-duplicates and truncates raw links.
type Normalizer struct {
	maxURLs int
	logger  *zap.Logger
}

// New builds a Normalizer keeping at most maxURLs candidates.
func New(maxURLs int, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxURLs < 1 {
		maxURLs = 1
	}
	return &Normalizer{maxURLs: maxURLs, logger: logger.Named("normalize")}
}

// Normalize returns candidates in first-seen order. An empty result is not an
// error here; callers decide whether that aborts the batch.
func (n *Normalizer) Normalize(raw []string) []scrape.CandidateURL {
	seen := make(map[string]struct{}, len(raw))
	out := make([]scrape.CandidateURL, 0, min(len(raw), n.maxURLs))
	var rejected, duplicates, truncated int

	for _, r := range raw {
		canonical, ok := Canonicalize(r)
		if !ok {
			rejected++
			continue
		}
		if _, dup := seen[canonical]; dup {
			duplicates++
			continue
		}
		seen[canonical] = struct{}{}
		if len(out) == n.maxURLs {
			truncated++
			continue
		}
		out = append(out, scrape.CandidateURL(canonical))
	}

	if rejected+duplicates+truncated > 0 {
		n.logger.Debug("discarded links",
			zap.Int("input", len(raw)),
			zap.Int("kept", len(out)),
			zap.Int("rejected", rejected),
			zap.Int("duplicates", duplicates),
			zap.Int("truncated", truncated),
		)
	}
	return out
}

// Canonicalize returns the canonical form of a raw link, or false when the
// link is not an absolute http(s) URL.
func Canonicalize(raw string) (string, bool) {
	s := strings.TrimRight(strings.TrimSpace(raw), trailingPunctuation)
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(s), "www.") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Hostname() == "" {
		return "", false
	}

	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" && strings.HasSuffix(u.Host, ":80") {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" && strings.HasSuffix(u.Host, ":443") {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), true
}
