package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var mainContentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	"#main",
	"#content",
	".post-content",
	".article-body",
	".entry-content",
	".markdown-body",
	".readme",
}

const boilerplateSelectors = "script, style, noscript, template, iframe, svg, nav, header, footer, aside, " +
	"form, button, .sidebar, .related-posts, .social-share, .share, .comments, #comments, " +
	".ad-banner, .advertisement, [aria-hidden='true'], [hidden], " +
	"[class*='cookie'], [id*='cookie'], [class*='consent'], [id*='consent'], [class*='gdpr']"

const contentBlocks = "h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, td, th, dt, dd, figcaption"

// Boilerplate strips page furniture and keeps the prose of the main content
// container (or of the whole body when no container is marked up).
type Boilerplate struct {
	// MinBlockLength drops non-heading blocks shorter than this many runes.
	MinBlockLength int
	// MaxLinkDensity drops blocks that are mostly link text.
	MaxLinkDensity float64
}

// NewBoilerplate returns the strategy with its default thresholds.
func NewBoilerplate() *Boilerplate {
	return &Boilerplate{MinBlockLength: 20, MaxLinkDensity: 0.5}
}

// Name identifies the strategy in logs and metrics.
func (b *Boilerplate) Name() string { return "boilerplate" }

// Extract returns the joined text blocks, or "" when nothing qualifies.
func (b *Boilerplate) Extract(body []byte, _ string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(boilerplateSelectors).Remove()

	root := mainContainer(doc)
	var blocks []string
	root.Find(contentBlocks).Each(func(_ int, s *goquery.Selection) {
		// containers such as li > p contribute through their leaf blocks
		if s.Find(contentBlocks).Length() > 0 {
			return
		}
		text := inlineText(s)
		if text == "" {
			return
		}
		if !isHeading(s) && utf8.RuneCountInString(text) < b.MinBlockLength {
			return
		}
		if b.MaxLinkDensity > 0 && linkDensity(s) > b.MaxLinkDensity {
			return
		}
		blocks = append(blocks, text)
	})
	return strings.Join(blocks, "\n\n"), nil
}

// mainContainer picks the longest match of the first main-content selector
// that has any text, falling back to the body.
func mainContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range mainContentSelectors {
		var best *goquery.Selection
		bestLen := 0
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if n := len(inlineText(s)); n > bestLen {
				best, bestLen = s, n
			}
		})
		if best != nil {
			return best
		}
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body.First()
	}
	return doc.Selection
}

func isHeading(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}
