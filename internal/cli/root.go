// internal/cli/root.go
package cli

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/app"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "scout",
	Short:   "Compare product prices across Indian e-commerce sites",
	Long:    `Scout scrapes live search results from multiple marketplaces in parallel, matches listings against your query, and ranks the offers by price, delivery speed and platform trust.`,
	Version: "0.1.0",
}

// ExecuteContext runs the root command under ctx. This is called by
// main.main(); cancelling ctx cancels the run in flight.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Initialize the application lazily so -h/help never starts anything
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetApp()
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("shutdown error")
		}
		SetApp(nil)
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "JSON log output to stderr")
	rootCmd.PersistentFlags().String("sites-dir", "", "Directory of site config YAML files (built-in targets when empty)")
	rootCmd.PersistentFlags().Bool("no-oracle", false, "Disable all external model capabilities")
}
