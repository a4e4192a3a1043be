package cmd

import (
	"os"

	"github.com/Aashish23092/taxwise-dashboard/config"
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "taxwise",
	Short:        "TaxWise personal finance dashboard",
	Long:         "Serve the TaxWise dashboard API, or run its CIBIL simulator, spending consolidation and reports from the command line.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file (defaults to $TAXWISE_CONFIG)")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(flagConfig)
}
