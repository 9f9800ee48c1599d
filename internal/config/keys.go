package config

import (
	"github.com/pwmfan/pwmfan/internal/util"
)

// Key enumerates all persisted config keys, in encoding order
type Key int

const (
	KeyPwmFanChannel Key = iota
	KeyPwmFanFrequency
	KeyPwmFanGpio
	KeyPwmFanDuty
	KeyPwmMosChannel
	KeyPwmMosFrequency
	KeyPwmMosGpio
	KeyPwmMosDuty
	KeyWifiSsid
	KeyWifiPassword
	KeyWifiChannel
	KeyDhcpsIp
	KeyDhcpsNetmask
	KeyDhcpsAsRouter

	keyCount
)

const (
	MinPwmChannel   = 0
	MaxPwmChannel   = 5
	MinPwmFrequency = 1000
	MaxPwmFrequency = 100000
	MinPwmGpio      = 0
	MaxPwmGpio      = 30
	MinPwmDuty      = 0
	MaxPwmDuty      = 255

	MinSsidLength     = 1
	MaxSsidLength     = 30
	MinPasswordLength = 8
	MaxPasswordLength = 30
	MinWifiChannel    = 1
	MaxWifiChannel    = 11
)

// Kind is the value type of a key
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindIPv4
)

// keySpec holds everything needed to parse, check, repair and access a single key
type keySpec struct {
	name string
	kind Kind

	// min and max bound the value of KindInt keys and the length of KindString keys
	min int
	max int
	// warnMin is a length below which KindString values are accepted with a warning
	warnMin int

	repairInt    int
	repairString string
	repairAddr   util.IPv4

	intField    func(c *Config) *int
	stringField func(c *Config) *string
	addrField   func(c *Config) *util.IPv4
	addrValid   func(ip util.IPv4) bool
}

// The repair value of a key is substituted whenever an update carries a value
// that cannot be parsed or is out of range.
var keySpecs = [keyCount]keySpec{
	KeyPwmFanChannel: {
		name: "pwm_fan_channel", kind: KindInt,
		min: MinPwmChannel, max: MaxPwmChannel, repairInt: 0,
		intField: func(c *Config) *int { return &c.Fan.Channel },
	},
	KeyPwmFanFrequency: {
		name: "pwm_fan_frequency", kind: KindInt,
		min: MinPwmFrequency, max: MaxPwmFrequency, repairInt: 25000,
		intField: func(c *Config) *int { return &c.Fan.Frequency },
	},
	KeyPwmFanGpio: {
		name: "pwm_fan_gpio", kind: KindInt,
		min: MinPwmGpio, max: MaxPwmGpio, repairInt: 4,
		intField: func(c *Config) *int { return &c.Fan.Gpio },
	},
	KeyPwmFanDuty: {
		name: "pwm_fan_duty", kind: KindInt,
		min: MinPwmDuty, max: MaxPwmDuty, repairInt: 100,
		intField: func(c *Config) *int { return &c.Fan.Duty },
	},
	KeyPwmMosChannel: {
		name: "pwm_mos_channel", kind: KindInt,
		min: MinPwmChannel, max: MaxPwmChannel, repairInt: 1,
		intField: func(c *Config) *int { return &c.Mos.Channel },
	},
	KeyPwmMosFrequency: {
		name: "pwm_mos_frequency", kind: KindInt,
		min: MinPwmFrequency, max: MaxPwmFrequency, repairInt: 25000,
		intField: func(c *Config) *int { return &c.Mos.Frequency },
	},
	KeyPwmMosGpio: {
		name: "pwm_mos_gpio", kind: KindInt,
		min: MinPwmGpio, max: MaxPwmGpio, repairInt: 8,
		intField: func(c *Config) *int { return &c.Mos.Gpio },
	},
	KeyPwmMosDuty: {
		name: "pwm_mos_duty", kind: KindInt,
		min: MinPwmDuty, max: MaxPwmDuty, repairInt: 255,
		intField: func(c *Config) *int { return &c.Mos.Duty },
	},
	KeyWifiSsid: {
		name: "wifi_ssid", kind: KindString,
		min: MinSsidLength, max: MaxSsidLength, repairString: "PWM_FAN_CONTROLLER",
		stringField: func(c *Config) *string { return &c.Wifi.Ssid },
	},
	KeyWifiPassword: {
		name: "wifi_password", kind: KindString,
		min: 0, max: MaxPasswordLength, warnMin: MinPasswordLength, repairString: "testpassword123",
		stringField: func(c *Config) *string { return &c.Wifi.Password },
	},
	KeyWifiChannel: {
		name: "wifi_channel", kind: KindInt,
		min: MinWifiChannel, max: MaxWifiChannel, repairInt: 1,
		intField: func(c *Config) *int { return &c.Wifi.Channel },
	},
	KeyDhcpsIp: {
		name: "dhcps_ip", kind: KindIPv4,
		repairAddr: util.NewIPv4(10, 10, 10, 1),
		addrField:  func(c *Config) *util.IPv4 { return &c.Dhcp.Ip },
		addrValid:  isValidHostAddress,
	},
	KeyDhcpsNetmask: {
		name: "dhcps_netmask", kind: KindIPv4,
		repairAddr: util.NewIPv4(255, 255, 255, 0),
		addrField:  func(c *Config) *util.IPv4 { return &c.Dhcp.Netmask },
		addrValid:  isValidNetmask,
	},
	KeyDhcpsAsRouter: {
		name: "dhcps_as_router", kind: KindInt,
		min: 0, max: 1, repairInt: 0,
		intField: func(c *Config) *int { return &c.Dhcp.AsRouter },
	},
}

var keysByName = func() map[string]Key {
	result := make(map[string]Key, keyCount)
	for key := Key(0); key < keyCount; key++ {
		result[keySpecs[key].name] = key
	}
	return result
}()

// Keys returns all config keys in encoding order
func Keys() []Key {
	result := make([]Key, 0, keyCount)
	for key := Key(0); key < keyCount; key++ {
		result = append(result, key)
	}
	return result
}

// LookupKey returns the key with the given persisted name
func LookupKey(name string) (Key, bool) {
	key, ok := keysByName[name]
	return key, ok
}

func (k Key) valid() bool {
	return k >= 0 && k < keyCount
}

func (k Key) spec() *keySpec {
	return &keySpecs[k]
}

// String returns the persisted name of the key
func (k Key) String() string {
	if !k.valid() {
		return "unknown"
	}
	return keySpecs[k].name
}

// Kind returns the value type of the key
func (k Key) Kind() Kind {
	return keySpecs[k].kind
}

// Bounds returns the inclusive value range of an integer key,
// or the length range of a string key.
func (k Key) Bounds() (min int, max int) {
	spec := k.spec()
	return spec.min, spec.max
}

// RepairValue returns the value substituted for an invalid update of this key
func (k Key) RepairValue() string {
	spec := k.spec()
	switch spec.kind {
	case KindString:
		return spec.repairString
	case KindIPv4:
		return spec.repairAddr.String()
	default:
		return formatInt(spec.repairInt)
	}
}

// isValidHostAddress is a coarse check: the first octet must not be zero
func isValidHostAddress(ip util.IPv4) bool {
	return ip.Octets()[0] != 0
}

// isValidNetmask is a coarse check: the first octet must be set and the last octet must be zero
func isValidNetmask(ip util.IPv4) bool {
	octets := ip.Octets()
	return octets[0] != 0 && octets[3] == 0
}

// isAllowedChar reports whether c may be used in ssid and password values
func isAllowedChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '-', '_', '+', '.':
		return true
	}
	return false
}

func hasOnlyAllowedChars(value string) bool {
	for i := 0; i < len(value); i++ {
		if !isAllowedChar(value[i]) {
			return false
		}
	}
	return true
}
