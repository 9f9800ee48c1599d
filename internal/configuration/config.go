package configuration

import (
	"errors"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/spf13/viper"
	"os"
	"time"
)

type Configuration struct {
	// ConfigFile is the location of the device config within the storage
	ConfigFile string `json:"configFile"`
	// Storage selects the storage backend of the device config, one of: file | bolt
	Storage string `json:"storage"`
	DbPath  string `json:"dbPath"`

	// ControllerAdjustmentTickRate is the interval at which the current duty cycles are re-applied
	ControllerAdjustmentTickRate time.Duration `json:"controllerAdjustmentTickRate"`
	// HistorySize is the number of applied duty cycles kept per output
	HistorySize int `json:"historySize"`

	Pwm        PwmConfig        `json:"pwm"`
	Wifi       WifiConfig       `json:"wifi"`
	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`

	// Overrides are applied on top of the persisted device config on startup
	Overrides map[string]string `json:"overrides"`
}

type PwmConfig struct {
	Enabled  bool   `json:"enabled"`
	ChipPath string `json:"chipPath"`
}

type WifiConfig struct {
	Enabled        bool   `json:"enabled"`
	OutputDir      string `json:"outputDir"`
	Interface      string `json:"interface"`
	MaxConnections int    `json:"maxConnections"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("pwmfan")
	viper.SetEnvPrefix("pwmfan")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/pwmfan/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("configFile", "/etc/pwmfan/config.cfg")
	viper.SetDefault("storage", "file")
	viper.SetDefault("dbPath", "/etc/pwmfan/pwmfan.db")
	viper.SetDefault("controllerAdjustmentTickRate", 1*time.Second)
	viper.SetDefault("historySize", 60)

	viper.SetDefault("pwm.enabled", true)
	viper.SetDefault("pwm.chipPath", "/sys/class/pwm/pwmchip0")

	viper.SetDefault("wifi.enabled", false)
	viper.SetDefault("wifi.outputDir", "/etc/pwmfan/ap")
	viper.SetDefault("wifi.interface", "wlan0")
	viper.SetDefault("wifi.maxConnections", 4)

	viper.SetDefault("api.enabled", true)
	viper.SetDefault("api.host", "0.0.0.0")
	viper.SetDefault("api.port", 80)
	viper.SetDefault("api.webRoot", "")

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("overrides", map[string]string{})
}

// DetectAndReadConfigFile reads the settings file, if there is one,
// and returns its path. Without a settings file the defaults are used.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			ui.Warning("No settings file found, using defaults")
			return ""
		}
		ui.Fatal("Error reading settings file, %s", err)
	}
	return viper.ConfigFileUsed()
}

// LoadConfig decodes the current viper state into CurrentConfig
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		OverridesHookFunc(),
	)
}
