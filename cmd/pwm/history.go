package pwm

import (
	"encoding/json"
	"fmt"
	"github.com/guptarohit/asciigraph"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/cobra"
	"net/http"
	"time"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Plot the recently applied duty cycles of an output",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := fetchHistory(apiBaseUrl(), outputId)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			ui.Info("No duty cycles recorded for %s yet", outputId)
			return nil
		}

		printHistory(outputId, values)
		return nil
	},
}

func fetchHistory(baseUrl string, id string) ([]float64, error) {
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("%s/history/%s/", baseUrl, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response for output %s: %s", id, resp.Status)
	}

	var values []float64
	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

func printHistory(id string, values []float64) {
	ui.Printfln("%s", plotHistory(id, values))
}

func plotHistory(id string, values []float64) string {
	caption := fmt.Sprintf("Duty (%s)", id)
	return asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
}

func init() {
	Command.AddCommand(historyCmd)
}
