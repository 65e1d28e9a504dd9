package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hubby",
	Short: "Bilingual event assistant for the Academy Days",
	Long: `Hubby answers visitor questions about the Academy Days programme in
French and English. It serves an embeddable chat widget, reads its knowledge
base from a JSON document or a live spreadsheet, and exposes the same answers
to Slack, Teams and MCP clients.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadDotenv)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".hubby.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadDotenv makes .env values visible to the HUBBY_* config overlay.
func loadDotenv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: reading .env: %v\n", err)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
