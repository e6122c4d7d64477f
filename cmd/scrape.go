package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

func newScrapeCmd() *cobra.Command {
	var (
		file   string
		urls   []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the links in a document or a list of URLs",
		Long: `Runs one scrape batch and prints the response. Use --file to extract links
from a PDF, HTML, feed or text document, or repeat --url to scrape links
directly.`,
		Example: `  resume-link-scraper scrape --file resume.pdf
  resume-link-scraper scrape --url https://jane.dev --url github.com/jane --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (file == "") == (len(urls) == 0) {
				return errors.New("exactly one of --file or --url is required")
			}
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q", output)
			}
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var resp scrape.Response
			if file != "" {
				doc, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read document: %w", err)
				}
				resp, err = appInstance.Service().ScrapeDocument(ctx, doc, mime.TypeByExtension(filepath.Ext(file)))
				if err != nil {
					return fmt.Errorf("scrape document: %w", err)
				}
			} else {
				resp, err = appInstance.Service().ScrapeURLs(ctx, urls)
				if err != nil {
					return fmt.Errorf("scrape urls: %w", err)
				}
			}

			succeeded, failed := resp.Counts()
			appInstance.Logger().Info("scrape finished", zap.Int("succeeded", succeeded), zap.Int("failed", failed))
			return writeResponse(cmd.OutOrStdout(), resp, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "source document to extract links from")
	cmd.Flags().StringArrayVarP(&urls, "url", "u", nil, "link to scrape (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")

	return cmd
}

func writeResponse(w io.Writer, resp scrape.Response, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
