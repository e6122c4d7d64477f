package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankLineRuns = regexp.MustCompile(`\n{3,}`)

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Ul: true,
}

// NormalizeText trims every line, collapses horizontal whitespace and turns
// runs of blank lines into a single blank line.
func NormalizeText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	out := strings.TrimSpace(strings.Join(lines, "\n"))
	return blankLineRuns.ReplaceAllString(out, "\n\n")
}

// inlineText is the element's text with whitespace collapsed to single spaces.
func inlineText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// renderText walks a subtree emitting paragraph breaks around block elements
// and line breaks for <br>.
func renderText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Br:
				b.WriteString("\n")
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.DataAtom]
		if block {
			b.WriteString("\n\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteString("\n\n")
		}
	}
	walk(n)
	return b.String()
}

// linkDensity is the share of an element's text that sits inside links.
func linkDensity(s *goquery.Selection) float64 {
	total := len(inlineText(s))
	if total == 0 {
		return 0
	}
	linked := 0
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		linked += len(inlineText(a))
	})
	return float64(linked) / float64(total)
}
