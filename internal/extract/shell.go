package extract

import (
	"bytes"
	"strings"
)

// ReasonScriptRendered is reported instead of ReasonNoContent when the page
// is an application shell whose text only appears after scripts run.
const ReasonScriptRendered = "page content is rendered by JavaScript"

// shellSizeThreshold bounds the pages checked for script density; larger
// pages carry enough markup that scripts are rarely the whole story.
const shellSizeThreshold = 4096

var spaMarkers = [][]byte{
	[]byte("__next"),
	[]byte(`id="root"`),
	[]byte(`id="app"`),
	[]byte("data-reactroot"),
	[]byte("ng-version"),
	[]byte("<noscript>you need to enable javascript"),
}

// looksScriptRendered reports whether an HTML body with no extractable text
// is a client-rendered shell.
func looksScriptRendered(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, marker := range spaMarkers {
		if bytes.Contains(lower, bytes.ToLower(marker)) {
			return true
		}
	}
	return len(body) < shellSizeThreshold && scriptDensityHigh(string(lower))
}

// scriptDensityHigh reports whether script elements cover a quarter or more
// of the (lowercased) document.
func scriptDensityHigh(lower string) bool {
	total := len(lower)
	if total == 0 {
		return false
	}

	const (
		openTag  = "<script"
		closeTag = "</script>"
	)
	coverage := 0
	pos := 0
	for {
		rel := strings.Index(lower[pos:], openTag)
		if rel == -1 {
			break
		}
		start := pos + rel

		tagClose := strings.IndexByte(lower[start:], '>')
		if tagClose == -1 {
			// unterminated tag: the rest of the document is script
			coverage += total - start
			break
		}
		contentStart := start + tagClose + 1

		next := total
		if relEnd := strings.Index(lower[contentStart:], closeTag); relEnd != -1 {
			next = contentStart + relEnd + len(closeTag)
		}
		coverage += next - start
		pos = next
	}
	return coverage*100/total >= 25
}
