package cmd

import (
	"github.com/spf13/cobra"

	"github.com/academydays/hubby/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hubby configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the assistant and generates a .hubby.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
