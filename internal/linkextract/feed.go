package linkextract

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// feedLinks returns the channel link followed by every item link.
func feedLinks(doc []byte) ([]string, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed: %v", scrape.ErrInvalidDocument, err)
	}

	var links []string
	if feed.Link != "" {
		links = append(links, feed.Link)
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		if item.Link != "" {
			links = append(links, item.Link)
		}
		links = append(links, item.Links...)
	}
	return links, nil
}
