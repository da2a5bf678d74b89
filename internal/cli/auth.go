// internal/cli/auth.go
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/oracle"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/ui"
)

// authCmd groups credential management for the external model API
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the external model API credential",
}

var authSetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the API key in the OS keyring",
	Long: `Stores the API key used for query parsing, selector discovery, semantic
matching and explanations. Reads the key from the argument, or prompts
when omitted. Falls back to a file under ~/.scout when no keyring is
available.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			fmt.Fprint(os.Stderr, "API key: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			key = strings.TrimSpace(line)
		}
		if err := oracle.SaveAPIKey(key); err != nil {
			return err
		}
		fmt.Println(ui.Success("API key stored"))
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := oracle.DeleteAPIKey(); err != nil {
			return err
		}
		fmt.Println(ui.Success("API key removed"))
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a credential is configured",
	Run: func(cmd *cobra.Command, args []string) {
		if oracle.APIKey() != "" {
			fmt.Println(ui.Success("credential configured"))
			return
		}
		fmt.Println(ui.Info("no credential, deterministic fallbacks only"))
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authClearCmd, authStatusCmd)
}
