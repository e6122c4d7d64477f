package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	unlikelyCandidates = regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|` +
		`cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|` +
		`sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)
	maybeCandidate = regexp.MustCompile(`(?i)and|article|body|column|content|main|shadow`)
	positiveHints  = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|post|text|blog|story`)
	negativeHints  = regexp.MustCompile(`(?i)-ad-|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|` +
		`foot|footer|footnote|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|` +
		`skyscraper|sponsor|shopping|tags|tool|widget`)
)

const (
	readabilityStrip = "script, style, noscript, template, iframe, svg, form, link, meta, object, embed"
	// divs holding none of these are scored as paragraphs
	divToParagraphBlockers = "a, blockquote, dl, div, img, ol, p, pre, table, ul"
	minScoredTextLength    = 25
)

// Readability is a DOM-scoring extractor: paragraph-like nodes vote for their
// ancestors, the best-scoring ancestor wins and related siblings are merged.
type Readability struct{}

// NewReadability returns the scoring strategy.
func NewReadability() *Readability { return &Readability{} }

// Name identifies the strategy in logs and metrics.
func (r *Readability) Name() string { return "readability" }

type candidate struct {
	sel   *goquery.Selection
	score float64
}

// Extract returns the text of the best-scoring content region, or "" when no
// node scores at all.
func (r *Readability) Extract(body []byte, _ string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(readabilityStrip).Remove()
	removeUnlikely(doc)

	scores := make(map[*html.Node]*candidate)
	var order []*html.Node
	credit := func(s *goquery.Selection, amount float64) {
		if s.Length() == 0 || s.Get(0).Type != html.ElementNode {
			return
		}
		node := s.Get(0)
		c, ok := scores[node]
		if !ok {
			c = &candidate{sel: s, score: initialScore(s)}
			scores[node] = c
			order = append(order, node)
		}
		c.score += amount
	}

	doc.Find("p, pre, td, div").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "div" && s.Find(divToParagraphBlockers).Length() > 0 {
			return
		}
		text := inlineText(s)
		length := utf8.RuneCountInString(text)
		if length < minScoredTextLength {
			return
		}
		contentScore := 1 + float64(strings.Count(text, ",")) + min(float64(length)/100, 3)

		parent := s.Parent()
		credit(parent, contentScore)
		grand := parent.Parent()
		credit(grand, contentScore/2)
		credit(grand.Parent(), contentScore/6)
	})
	if len(order) == 0 {
		return "", nil
	}

	var top *candidate
	for _, node := range order {
		c := scores[node]
		c.score *= 1 - linkDensity(c.sel)
		if top == nil || c.score > top.score {
			top = c
		}
	}

	return mergeSiblings(top, scores), nil
}

func removeUnlikely(doc *goquery.Document) {
	var doomed []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "html", "body", "article", "main":
			return
		}
		hint := s.AttrOr("class", "") + " " + s.AttrOr("id", "")
		if strings.TrimSpace(hint) == "" {
			return
		}
		if unlikelyCandidates.MatchString(hint) && !maybeCandidate.MatchString(hint) {
			doomed = append(doomed, s)
		}
	})
	for _, s := range doomed {
		s.Remove()
	}
}

func initialScore(s *goquery.Selection) float64 {
	var score float64
	switch goquery.NodeName(s) {
	case "div":
		score = 5
	case "pre", "td", "blockquote":
		score = 3
	case "address", "ol", "ul", "dl", "dd", "dt", "li", "form":
		score = -3
	case "h1", "h2", "h3", "h4", "h5", "h6", "th":
		score = -5
	}
	return score + classWeight(s)
}

func classWeight(s *goquery.Selection) float64 {
	var weight float64
	for _, attr := range []string{"class", "id"} {
		value, ok := s.Attr(attr)
		if !ok || value == "" {
			continue
		}
		if negativeHints.MatchString(value) {
			weight -= 25
		}
		if positiveHints.MatchString(value) {
			weight += 25
		}
	}
	return weight
}

// mergeSiblings renders the top candidate together with siblings that scored
// well or look like standalone prose paragraphs.
func mergeSiblings(top *candidate, scores map[*html.Node]*candidate) string {
	threshold := max(10, top.score*0.2)
	parent := top.sel.Parent()
	if parent.Length() == 0 {
		return renderText(top.sel.Get(0))
	}

	topNode := top.sel.Get(0)
	var parts []string
	parent.Children().Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		include := node == topNode
		if !include {
			if c, ok := scores[node]; ok && c.score >= threshold {
				include = true
			} else if goquery.NodeName(s) == "p" {
				include = proseParagraph(s)
			}
		}
		if include {
			parts = append(parts, renderText(node))
		}
	})
	return strings.Join(parts, "\n\n")
}

func proseParagraph(s *goquery.Selection) bool {
	text := inlineText(s)
	density := linkDensity(s)
	length := utf8.RuneCountInString(text)
	switch {
	case length > 80:
		return density < 0.25
	case length > 0:
		return density == 0 && strings.Contains(text, ". ")
	}
	return false
}
