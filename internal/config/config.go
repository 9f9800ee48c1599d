package config

import (
	"errors"

	"github.com/pwmfan/pwmfan/internal/util"
	"github.com/qdm12/reprint"
)

const (
	DefaultFanChannel   = 0
	DefaultFanFrequency = 25000
	DefaultFanGpio      = 4
	DefaultFanDuty      = 100

	DefaultMosChannel   = 1
	DefaultMosFrequency = 25000
	DefaultMosGpio      = 8
	DefaultMosDuty      = 255

	DefaultWifiSsid     = "PWM_FAN_CONTROLLER"
	DefaultWifiPassword = "testpassword123"
	DefaultWifiChannel  = 1

	DefaultDhcpAsRouter = 0
)

var (
	DefaultDhcpIp      = util.NewIPv4(10, 10, 10, 1)
	DefaultDhcpNetmask = util.NewIPv4(255, 255, 255, 0)
)

// PwmChannel configures a single PWM output
type PwmChannel struct {
	Channel   int `json:"channel"`
	Frequency int `json:"frequency"`
	Gpio      int `json:"gpio"`
	// Duty is the duty cycle in [0..255]
	Duty int `json:"duty"`
}

// WifiAp configures the access point of the controller
type WifiAp struct {
	Ssid     string `json:"ssid"`
	Password string `json:"password"`
	Channel  int    `json:"channel"`
}

// DhcpServer configures the DHCP server on the access point interface
type DhcpServer struct {
	Ip      util.IPv4 `json:"ip"`
	Netmask util.IPv4 `json:"netmask"`
	// AsRouter controls whether clients get a default route via the controller.
	// If this is 0, mobile clients keep using cellular data while connected.
	AsRouter int `json:"asRouter"`
}

// Config is the complete device configuration.
// A Config is only usable when all of its parts are present, see IsValid.
type Config struct {
	Fan  *PwmChannel `json:"fan"`
	Mos  *PwmChannel `json:"mos"`
	Wifi *WifiAp     `json:"wifi"`
	Dhcp *DhcpServer `json:"dhcp"`
}

// New returns a config holding the default value for every key
func New() *Config {
	return &Config{
		Fan: &PwmChannel{
			Channel:   DefaultFanChannel,
			Frequency: DefaultFanFrequency,
			Gpio:      DefaultFanGpio,
			Duty:      DefaultFanDuty,
		},
		Mos: &PwmChannel{
			Channel:   DefaultMosChannel,
			Frequency: DefaultMosFrequency,
			Gpio:      DefaultMosGpio,
			Duty:      DefaultMosDuty,
		},
		Wifi: &WifiAp{
			Ssid:     DefaultWifiSsid,
			Password: DefaultWifiPassword,
			Channel:  DefaultWifiChannel,
		},
		Dhcp: &DhcpServer{
			Ip:       DefaultDhcpIp,
			Netmask:  DefaultDhcpNetmask,
			AsRouter: DefaultDhcpAsRouter,
		},
	}
}

// FromValues creates a default config and applies the given key/value updates on top of it.
// Known keys are applied in encoding order. Unknown keys are reported in the returned error,
// the returned config is always complete.
func FromValues(values map[string]string) (*Config, error) {
	config := New()

	var errs []error
	for _, key := range Keys() {
		value, ok := values[key.String()]
		if !ok {
			continue
		}
		if _, err := config.SetValue(key.String(), value); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range util.SortedKeys(values) {
		if _, known := LookupKey(name); !known {
			errs = append(errs, unknownKeyError(name))
		}
	}

	return config, errors.Join(errs...)
}

// Clone returns a deep copy of this config
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	return reprint.This(c).(*Config)
}

// complete reports whether all parts of the config are present
func (c *Config) complete() bool {
	return c != nil && c.Fan != nil && c.Mos != nil && c.Wifi != nil && c.Dhcp != nil
}

// Release drops all parts of the config and clears the given reference.
func Release(p **Config) {
	if p == nil || *p == nil {
		return
	}
	c := *p
	c.Fan = nil
	c.Mos = nil
	c.Wifi = nil
	c.Dhcp = nil
	*p = nil
}
