package linkextract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// htmlLinks returns anchor targets followed by links written out in the text.
func htmlLinks(doc []byte) ([]string, error) {
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", scrape.ErrInvalidDocument, err)
	}
	page.Find("script, style, noscript, template").Remove()

	var links []string
	page.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href := strings.TrimSpace(a.AttrOr("href", "")); href != "" {
			links = append(links, href)
		}
	})
	links = append(links, textLinks(page.Text())...)
	return links, nil
}
