package config

import (
	"fmt"
	"github.com/pterm/pterm"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value of a single key of the persisted device config",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		store := openStore()
		c := store.Load()
		defer config.Release(&c)

		value, err := c.GetValue(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s", value)
		return nil
	},
}

func init() {
	Command.AddCommand(getCmd)
}
