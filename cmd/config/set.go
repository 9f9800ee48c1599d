package config

import (
	"fmt"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/cobra"
	"strings"
)

var setCmd = &cobra.Command{
	Use:   "set <key>=<value>...",
	Short: "Update keys of the persisted device config",
	Long: `Update one or more keys of the persisted device config.
Invalid values are replaced with the default value of the key.
If any key is unknown, nothing is saved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignments, err := parseAssignments(args)
		if err != nil {
			return err
		}

		store := openStore()
		c := store.Load()
		defer config.Release(&c)

		for _, a := range assignments {
			outcome, err := c.SetValue(a[0], a[1])
			if err != nil {
				return err
			}
			if outcome == config.Repaired {
				value, _ := c.GetValue(a[0])
				ui.Warning("%s was reset to %s", a[0], value)
			}
		}

		if err := store.Save(c); err != nil {
			return err
		}
		ui.Success("Saved %d key(s) to %s", len(assignments), store.Path())
		return nil
	},
}

// parseAssignments splits key=value arguments and rejects unknown keys
func parseAssignments(args []string) ([][2]string, error) {
	result := make([][2]string, 0, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("invalid assignment '%s', expected <key>=<value>", arg)
		}
		if _, ok := config.LookupKey(key); !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownKey, key)
		}
		result = append(result, [2]string{key, value})
	}
	return result, nil
}

func init() {
	Command.AddCommand(setCmd)
}
