package config

import (
	"github.com/pwmfan/pwmfan/internal"
	"github.com/pwmfan/pwmfan/internal/configuration"
	"github.com/pwmfan/pwmfan/internal/persistence"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "config",
	Short:            "Device config related commands",
	Long:             ``,
	TraverseChildren: true,
}

// loadSettings reads and validates the daemon settings
func loadSettings() {
	// note: config file path parameter comes from the root command (-c)
	configPath := configuration.DetectAndReadConfigFile()
	if configPath != "" {
		ui.Debug("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()

	if err := configuration.Validate(); err != nil {
		ui.Fatal("Invalid settings: %v", err)
	}
}

// openStore returns the store of the device config as configured by the daemon settings
func openStore() *persistence.ConfigStore {
	loadSettings()
	store, err := internal.CreateConfigStore(configuration.CurrentConfig)
	if err != nil {
		ui.Fatal("Unable to open storage: %v", err)
	}
	return store
}
