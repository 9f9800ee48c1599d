package config

import (
	"testing"

	"github.com/pwmfan/pwmfan/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	// WHEN
	c := New()

	// THEN
	assert.True(t, IsValid(c))
	assert.Equal(t, PwmChannel{Channel: 0, Frequency: 25000, Gpio: 4, Duty: 100}, *c.Fan)
	assert.Equal(t, PwmChannel{Channel: 1, Frequency: 25000, Gpio: 8, Duty: 255}, *c.Mos)
	assert.Equal(t, WifiAp{Ssid: "PWM_FAN_CONTROLLER", Password: "testpassword123", Channel: 1}, *c.Wifi)
	assert.Equal(t, "10.10.10.1", c.Dhcp.Ip.String())
	assert.Equal(t, "255.255.255.0", c.Dhcp.Netmask.String())
	assert.Equal(t, 0, c.Dhcp.AsRouter)
}

func TestFromValues(t *testing.T) {
	// GIVEN
	values := map[string]string{
		"pwm_fan_duty": "42",
		"wifi_ssid":    "garage",
		"dhcps_ip":     "192.168.4.1",
	}

	// WHEN
	c, err := FromValues(values)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 42, c.Fan.Duty)
	assert.Equal(t, "garage", c.Wifi.Ssid)
	assert.Equal(t, util.NewIPv4(192, 168, 4, 1), c.Dhcp.Ip)
	assert.Equal(t, DefaultMosDuty, c.Mos.Duty)
}

func TestFromValues_UnknownKey(t *testing.T) {
	// GIVEN
	values := map[string]string{
		"pwm_fan_duty": "42",
		"fan_speed":    "12",
	}

	// WHEN
	c, err := FromValues(values)

	// THEN
	assert.ErrorIs(t, err, ErrUnknownKey)
	require.NotNil(t, c)
	assert.True(t, IsValid(c))
	assert.Equal(t, 42, c.Fan.Duty)
}

func TestClone_IsIndependent(t *testing.T) {
	// GIVEN
	c := New()

	// WHEN
	clone := c.Clone()
	clone.Fan.Duty = 1
	clone.Wifi.Ssid = "other"

	// THEN
	assert.Equal(t, DefaultFanDuty, c.Fan.Duty)
	assert.Equal(t, DefaultWifiSsid, c.Wifi.Ssid)
	assert.NotSame(t, c.Fan, clone.Fan)
}

func TestRelease(t *testing.T) {
	// GIVEN
	c := New()
	fan := c.Fan
	alias := c

	// WHEN
	Release(&c)

	// THEN
	assert.Nil(t, c)
	assert.Nil(t, alias.Fan)
	assert.Nil(t, alias.Dhcp)
	assert.NotNil(t, fan)
	assert.False(t, IsValid(alias))
}

func TestRelease_Nil(t *testing.T) {
	// GIVEN
	var c *Config

	// THEN
	assert.NotPanics(t, func() {
		Release(&c)
		Release(nil)
	})
}
