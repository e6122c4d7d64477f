package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testPage = `<html><body><main><article>
<p>Jane Doe maintains a handful of open source command line tools and writes about testing Go services.</p>
<p>Her recent posts cover structured logging, graceful shutdown and keeping dependency trees small.</p>
</article></main></body></html>`

func writeTestConfig(t *testing.T, port int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf(`server:
  port: %d
  shutdown_seconds: 2
fetch:
  delay_seconds: 0
  timeout_seconds: 5
  connect_timeout_seconds: 1
logging:
  development: false
  level: error
`, port)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestScrapeCommandURLsYAML(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	}))
	defer site.Close()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{
		"--config", writeTestConfig(t, 8000),
		"scrape",
		"--url", site.URL + "/about",
		"--url", site.URL + "/missing",
		"--output", "yaml",
	})
	require.NoError(t, root.Execute())

	got := out.String()
	require.Contains(t, got, "scraped_data:")
	require.Contains(t, got, "status: success")
	require.Contains(t, got, "Jane Doe")
	require.Contains(t, got, "error_message: http 404 Not Found")
}

func TestScrapeCommandFileJSON(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer site.Close()

	doc := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(doc, []byte("Jane Doe\nBlog: "+site.URL+"/blog\n"), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", writeTestConfig(t, 8000), "scrape", "--file", doc})
	require.NoError(t, root.Execute())

	require.Contains(t, out.String(), `"source_url": "`+site.URL+`/blog"`)
	require.Contains(t, out.String(), `"status": "success"`)
	require.Contains(t, out.String(), `"error_message": null`)
}

func TestScrapeCommandFlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "neither source", args: []string{"scrape"}, want: "exactly one of --file or --url"},
		{name: "both sources", args: []string{"scrape", "--file", "a.pdf", "--url", "https://a.example"}, want: "exactly one of --file or --url"},
		{name: "bad output", args: []string{"scrape", "--url", "https://a.example", "--output", "xml"}, want: "unsupported output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append([]string{"--config", writeTestConfig(t, 8000)}, tt.args...))
			err := root.Execute()
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestScrapeCommandNoLinks(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeTestConfig(t, 8000), "scrape", "--url", "mailto:jane@example.com"})
	require.ErrorContains(t, root.Execute(), "no processable links")
}

func TestRootRejectsMissingConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "scrape", "--url", "https://a.example"})
	require.ErrorContains(t, root.Execute(), "load config")
}

func TestServeCommandShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := newRootCmd()
	root.SetArgs([]string{"--config", writeTestConfig(t, port), "serve"})
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	healthURL := fmt.Sprintf("http://127.0.0.1:%d/healthz", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL) //nolint:noctx // test probe
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestResolveAppMissing(t *testing.T) {
	_, err := resolveApp(context.Background())
	require.EqualError(t, err, "application not initialized")
}
