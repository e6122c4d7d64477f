package normalize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

func TestNormalizeFiltersAndDedupes(t *testing.T) {
	t.Parallel()

	n := New(40, nil)
	got := n.Normalize([]string{
		"https://a.com/x#top",
		"https://a.com/x",
		"mailto:me@example.com",
		"tel:+15551234",
		"javascript:void(0)",
		"ftp://files.example.com/a",
		"/relative/path",
		"",
		"  https://b.com/page).  ",
		"www.c.com/about",
		"HTTPS://A.COM/x#other",
	})

	require.Equal(t, []scrape.CandidateURL{
		"https://a.com/x",
		"https://b.com/page",
		"http://www.c.com/about",
	}, got)
}

func TestNormalizeTruncatesKeepingFirstSeen(t *testing.T) {
	t.Parallel()

	raw := make([]string, 0, 50)
	for i := range 50 {
		raw = append(raw, fmt.Sprintf("https://example.com/%d", i))
	}

	got := New(40, nil).Normalize(raw)
	require.Len(t, got, 40)
	require.Equal(t, scrape.CandidateURL("https://example.com/0"), got[0])
	require.Equal(t, scrape.CandidateURL("https://example.com/39"), got[39])
}

func TestNormalizeEmptyWhenNothingUsable(t *testing.T) {
	t.Parallel()

	got := New(5, nil).Normalize([]string{"mailto:a@b.c", "not a url", "#frag"})
	require.Empty(t, got)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	n := New(10, nil)
	first := n.Normalize([]string{"https://a.com:443/p?q=1#f", "http://B.com:80/", "https://a.com/p?q=1"})
	raw := make([]string, len(first))
	for i, u := range first {
		raw[i] = u.String()
	}
	require.Equal(t, first, n.Normalize(raw))
	require.Equal(t, []scrape.CandidateURL{"https://a.com/p?q=1", "http://b.com/"}, first)
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "https://example.com/a#b", want: "https://example.com/a", ok: true},
		{raw: `"https://example.com/q?x=1"`, want: "", ok: false},
		{raw: `https://example.com/q?x=1"`, want: "https://example.com/q?x=1", ok: true},
		{raw: "www.Example.com", want: "http://www.example.com", ok: true},
		{raw: "https://", want: "", ok: false},
		{raw: "https://exa mple.com", want: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok := Canonicalize(tt.raw)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
