package config

import (
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the persisted device config with the defaults",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		c, err := store.Reset()
		if err != nil {
			return err
		}
		config.Release(&c)

		ui.Success("Reset device config at %s", store.Path())
		return nil
	},
}

func init() {
	Command.AddCommand(resetCmd)
}
