package configuration

import (
	"fmt"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/persistence"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
	"strings"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := validateStorage(config)
	if err != nil {
		return err
	}
	err = validateController(config)
	if err != nil {
		return err
	}
	err = validateServers(config)
	if err != nil {
		return err
	}
	return validateOverrides(config)
}

func validateStorage(config *Configuration) error {
	supportedBackends := []string{persistence.BackendFile, persistence.BackendBolt}
	if !util.ContainsString(supportedBackends, config.Storage) {
		return fmt.Errorf("unsupported storage '%s', use one of: %s", config.Storage, strings.Join(supportedBackends, " | "))
	}
	if len(config.ConfigFile) <= 0 {
		return fmt.Errorf("configFile must not be empty")
	}
	if config.Storage == persistence.BackendBolt && len(config.DbPath) <= 0 {
		return fmt.Errorf("dbPath is required for storage '%s'", persistence.BackendBolt)
	}
	return nil
}

func validateController(config *Configuration) error {
	if config.ControllerAdjustmentTickRate <= 0 {
		return fmt.Errorf("controllerAdjustmentTickRate must be positive, was %s", config.ControllerAdjustmentTickRate)
	}
	if config.HistorySize <= 0 {
		return fmt.Errorf("historySize must be >= 1, was %d", config.HistorySize)
	}
	if config.Pwm.Enabled && len(config.Pwm.ChipPath) <= 0 {
		return fmt.Errorf("pwm: chipPath is missing")
	}
	if config.Wifi.Enabled {
		if len(config.Wifi.OutputDir) <= 0 {
			return fmt.Errorf("wifi: outputDir is missing")
		}
		if len(config.Wifi.Interface) <= 0 {
			return fmt.Errorf("wifi: interface is missing")
		}
		if config.Wifi.MaxConnections <= 0 {
			return fmt.Errorf("wifi: maxConnections must be >= 1, was %d", config.Wifi.MaxConnections)
		}
	}
	return nil
}

func validateServers(config *Configuration) error {
	if config.Api.Enabled && !util.InRange(config.Api.Port, 1, 65535) {
		return fmt.Errorf("api: invalid port %d", config.Api.Port)
	}
	if config.Statistics.Enabled && !util.InRange(config.Statistics.Port, 1, 65535) {
		return fmt.Errorf("statistics: invalid port %d", config.Statistics.Port)
	}
	if config.Api.Enabled && config.Statistics.Enabled && config.Api.Port == config.Statistics.Port {
		ui.Warning("api and statistics use the same port %d, metrics are also served by the api", config.Api.Port)
	}
	if len(config.Api.WebRoot) > 0 && !util.FileExists(config.Api.WebRoot) {
		return fmt.Errorf("api: webRoot '%s' does not exist", config.Api.WebRoot)
	}
	return nil
}

func validateOverrides(cfg *Configuration) error {
	for _, key := range util.SortedKeys(cfg.Overrides) {
		if _, ok := config.LookupKey(key); !ok {
			return fmt.Errorf("overrides: unknown key '%s'", key)
		}
	}
	return nil
}
