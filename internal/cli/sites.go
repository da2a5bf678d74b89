// internal/cli/sites.go
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/ui"
)

var sitesJSON bool

// sitesCmd represents the sites command
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List configured marketplaces",
	Long: `Shows every marketplace target the scraper knows about, with its trust
score, wait strategy and whether it is enabled.`,
	RunE: runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
	sitesCmd.Flags().BoolVar(&sitesJSON, "json-out", false, "Print the target list as JSON")
}

func runSites(cmd *cobra.Command, args []string) error {
	a := GetApp()
	targets := a.Registry.Enabled()

	if sitesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(targets)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, ui.Bold("KEY\tNAME\tTRUST\tWAIT\tAFFINITY"))
	for _, t := range targets {
		affinity := "-"
		if len(t.BrandAffinity) > 0 {
			affinity = fmt.Sprintf("%v", t.BrandAffinity)
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", t.Key, t.Name, t.TrustScore, t.WaitStrategy, affinity)
	}
	return w.Flush()
}
