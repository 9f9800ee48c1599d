package config

import (
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/cobra"
	"os"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the daemon settings and the persisted device config",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		ui.Info("Using device config at: %s", store.Path())

		c := store.Load()
		defer config.Release(&c)

		if err := c.Validate(); err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}

		ui.Success("Config looks good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
