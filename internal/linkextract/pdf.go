package linkextract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// pdfLinks returns, page by page, the links written in the page text followed
// by the targets of its link annotations.
func pdfLinks(doc []byte) (links []string, err error) {
	// the parser panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			links = nil
			err = fmt.Errorf("%w: malformed pdf: %v", scrape.ErrInvalidDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", scrape.ErrInvalidDocument, err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text, textErr := pageText(page); textErr == nil {
			links = append(links, textLinks(text)...)
		}
		links = append(links, annotationLinks(page)...)
	}
	return links, nil
}

// pageText isolates text extraction so a bad font program only costs the
// page's text links, not the whole document.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract page text: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func annotationLinks(page pdf.Page) []string {
	annots := page.V.Key("Annots")
	var links []string
	for j := 0; j < annots.Len(); j++ {
		annot := annots.Index(j)
		if annot.Key("Subtype").Name() != "Link" {
			continue
		}
		uri := annot.Key("A").Key("URI")
		if uri.Kind() == pdf.String && uri.RawString() != "" {
			links = append(links, uri.RawString())
		}
	}
	return links
}
