package config

import (
	"bytes"
	"github.com/mgutz/ansi"
	"github.com/pwmfan/pwmfan/cmd/global"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"strconv"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print all keys of the persisted device config",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		c := store.Load()
		defer config.Release(&c)

		values, err := c.Values()
		if err != nil {
			return err
		}

		return printValues(values)
	},
}

func printValues(values map[string]string) error {
	tableString, err := renderTable(values)
	if err != nil {
		return err
	}
	ui.Printfln("%s", tableString)
	return nil
}

func renderTable(values map[string]string) (string, error) {
	var rows [][]string
	for _, key := range config.Keys() {
		rows = append(rows, []string{key.String(), values[key.String()], describeRange(key), key.RepairValue()})
	}

	tab := table.Table{
		Headers: []string{"Key", "Value", "Allowed", "Default"},
		Rows:    rows,
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func describeRange(key config.Key) string {
	min, max := key.Bounds()
	switch key.Kind() {
	case config.KindInt:
		return strconv.Itoa(min) + ".." + strconv.Itoa(max)
	case config.KindString:
		return strconv.Itoa(min) + ".." + strconv.Itoa(max) + " chars"
	default:
		return "a.b.c.d"
	}
}

func init() {
	Command.AddCommand(showCmd)
}
