// Package cli wires the gemrecon command tree.
package cli

import (
	"github.com/spf13/cobra"

	"gemrecon/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "gemrecon",
	Short: "Reconcile PAO bill ledgers against GeM invoice ledgers",
	Long: `gemrecon matches payments passed by a Pay & Accounts Office against
GeM invoice/credit-advice records, settling each bill with one invoice or an
exact-sum combination of invoices, and produces the audit report tables.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "gemrecon.yaml", "path to the configuration file")
}

func loadConfig() *config.Config {
	return config.LoadOrEnvWithPath(cfgPath)
}
