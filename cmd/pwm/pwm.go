package pwm

import (
	"fmt"
	"github.com/pwmfan/pwmfan/internal/configuration"
	"github.com/pwmfan/pwmfan/internal/controller"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/cobra"
)

var outputId string

var Command = &cobra.Command{
	Use:              "pwm",
	Short:            "PWM output related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&outputId,
		"id", "i",
		controller.OutputFan,
		fmt.Sprintf("Output ID, one of: %s | %s", controller.OutputFan, controller.OutputMos),
	)
}

// apiBaseUrl returns the address of the REST api of a locally running daemon
func apiBaseUrl() string {
	configuration.DetectAndReadConfigFile()
	configuration.LoadConfig()

	api := configuration.CurrentConfig.Api
	if !api.Enabled {
		ui.Fatal("The REST api is disabled in the settings")
	}
	host := api.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, api.Port)
}
