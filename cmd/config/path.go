package config

import (
	"fmt"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the persisted device config",
	Long:  ``,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pterm.DisableOutput()
		store := openStore()
		fmt.Printf("%s", store.Path())
	},
}

func init() {
	Command.AddCommand(pathCmd)
}
