// internal/cli/search.go
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/app"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/export"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/pipeline"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/ui"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

var (
	searchMode   string
	searchSites  []string
	searchStream bool
	searchOutput string
	searchExport string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search and compare a product across marketplaces",
	Long: `Scrapes live search results for the query from every enabled marketplace,
filters listings down to the exact product, and ranks the surviving offers.

Ranking mode picks the objective: cheapest, fastest, reliable, or balanced.`,
	Example: `  # Compare across all enabled sites
  scout search "Samsung Galaxy S24 Ultra 256GB"

  # Optimize for delivery speed on two sites
  scout search "iPhone 15 Pro" --mode fastest --sites amazon,flipkart

  # Machine-readable result
  scout search "OnePlus 12" --output json

  # Stream progress events as NDJSON
  scout search "Pixel 9" --stream`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "balanced", "Ranking mode: balanced, cheapest, fastest, or reliable")
	searchCmd.Flags().StringSliceVar(&searchSites, "sites", nil, "Restrict to these site keys (comma-separated)")
	searchCmd.Flags().BoolVar(&searchStream, "stream", false, "Emit NDJSON progress events to stdout")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Output format: json, or empty for the table view")
	searchCmd.Flags().StringVar(&searchExport, "export", "", "Also write the result to a file (.json, .csv or .md)")
	searchCmd.Flags().Int("concurrency", 0, "Max sites scraped in parallel")
	searchCmd.Flags().String("site-timeout", "", "Per-site wall time budget (e.g. 45s)")
	searchCmd.Flags().String("timeout", "", "Whole-run wall time budget (e.g. 3m)")
	searchCmd.Flags().Float64("min-score", 0, "Minimum match score for an offer to rank")
	searchCmd.Flags().Bool("headful", false, "Run Chrome with a visible window")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := GetApp()
	query := strings.Join(args, " ")
	mode := models.ParseMode(searchMode)
	opts := pipeline.Options{
		Sites:         searchSites,
		GlobalTimeout: a.Config.GlobalTimeout,
	}

	if searchStream {
		return runSearchStream(cmd, a, query, mode, opts)
	}

	bar := newSiteBar(len(a.Registry.Enabled()))
	events := make(chan models.Event, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if ev.Type == models.EventScrapingStarted && bar != nil {
				bar.ChangeMax(len(ev.Sites))
			}
			if ev.Type == models.EventSiteDone && bar != nil {
				_ = bar.Add(1)
			}
		}
	}()

	result, err := a.Pipeline.RunStream(cmd.Context(), query, mode, opts, events)
	<-done
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	if searchExport != "" {
		if err := export.Save(result, searchExport); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	if searchOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	ui.RenderResult(os.Stdout, result)
	return nil
}

// runSearchStream writes every pipeline event as one NDJSON line.
func runSearchStream(cmd *cobra.Command, a *app.Application, query string, mode models.RankMode, opts pipeline.Options) error {
	events := make(chan models.Event, 16)
	done := make(chan error, 1)
	enc := json.NewEncoder(os.Stdout)
	go func() {
		for ev := range events {
			if err := enc.Encode(ev); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	_, err := a.Pipeline.RunStream(cmd.Context(), query, mode, opts, events)
	if encErr := <-done; err == nil {
		err = encErr
	}
	return err
}

func newSiteBar(total int) *progressbar.ProgressBar {
	if total <= 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("scraping"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer: "=", SaucerHead: ">", SaucerPadding: " ",
			BarStart: "[", BarEnd: "]",
		}),
	)
}
