package wifi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestHostapdAccessPoint_StartDefaults(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	ap := NewHostapdAccessPoint(dir, "wlan0", 4)
	c := config.New()

	// WHEN
	err := ap.Start(*c.Wifi, *c.Dhcp)

	// THEN
	require.NoError(t, err)
	assert.True(t, ap.IsRunning())

	hostapd := readFile(t, filepath.Join(dir, HostapdConfigFile))
	assert.Contains(t, hostapd, "interface=wlan0\n")
	assert.Contains(t, hostapd, "ssid=PWM_FAN_CONTROLLER\n")
	assert.Contains(t, hostapd, "channel=1\n")
	assert.Contains(t, hostapd, "max_num_sta=4\n")
	assert.Contains(t, hostapd, "wpa_passphrase=testpassword123\n")

	udhcpd := readFile(t, filepath.Join(dir, UdhcpdConfigFile))
	assert.Contains(t, udhcpd, "start 10.10.10.2\n")
	assert.Contains(t, udhcpd, "end 10.10.10.5\n")
	assert.Contains(t, udhcpd, "opt subnet 255.255.255.0\n")
	assert.NotContains(t, udhcpd, "opt router")
}

func TestHostapdAccessPoint_AsRouter(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	ap := NewHostapdAccessPoint(dir, "wlan0", 4)
	c := config.New()
	c.Dhcp.AsRouter = 1

	// WHEN
	err := ap.Start(*c.Wifi, *c.Dhcp)

	// THEN
	require.NoError(t, err)
	udhcpd := readFile(t, filepath.Join(dir, UdhcpdConfigFile))
	assert.Contains(t, udhcpd, "opt router 10.10.10.1\n")
}

func TestHostapdAccessPoint_ShortPasswordIsOpen(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	ap := NewHostapdAccessPoint(dir, "wlan0", 4)
	c := config.New()
	c.Wifi.Password = "short"

	// WHEN
	err := ap.Start(*c.Wifi, *c.Dhcp)

	// THEN
	require.NoError(t, err)
	hostapd := readFile(t, filepath.Join(dir, HostapdConfigFile))
	assert.NotContains(t, hostapd, "wpa")
}

func TestHostapdAccessPoint_Stop(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	ap := NewHostapdAccessPoint(dir, "wlan0", 4)
	c := config.New()
	require.NoError(t, ap.Start(*c.Wifi, *c.Dhcp))

	// WHEN
	err := ap.Stop()

	// THEN
	require.NoError(t, err)
	assert.False(t, ap.IsRunning())
	assert.False(t, util.FileExists(filepath.Join(dir, HostapdConfigFile)))
	assert.False(t, util.FileExists(filepath.Join(dir, UdhcpdConfigFile)))
	assert.NoError(t, ap.Stop())
}

func TestAddressPool(t *testing.T) {
	// GIVEN
	ip := util.NewIPv4(192, 168, 4, 1)
	netmask := util.NewIPv4(255, 255, 255, 0)

	// WHEN
	start, end, err := AddressPool(ip, netmask, 10)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "192.168.4.2", start.String())
	assert.Equal(t, "192.168.4.11", end.String())
}

func TestAddressPool_StopsBeforeBroadcast(t *testing.T) {
	// GIVEN
	ip := util.NewIPv4(192, 168, 4, 250)
	netmask := util.NewIPv4(255, 255, 255, 0)

	// WHEN
	start, end, err := AddressPool(ip, netmask, 10)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "192.168.4.251", start.String())
	assert.Equal(t, "192.168.4.254", end.String())
}

func TestAddressPool_BelowServerAddress(t *testing.T) {
	// GIVEN
	ip := util.NewIPv4(192, 168, 4, 254)
	netmask := util.NewIPv4(255, 255, 255, 0)

	// WHEN
	start, end, err := AddressPool(ip, netmask, 10)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "192.168.4.244", start.String())
	assert.Equal(t, "192.168.4.253", end.String())
}

func TestAddressPool_ServerOnBroadcastAddress(t *testing.T) {
	// GIVEN
	ip := util.NewIPv4(10, 10, 10, 255)
	netmask := util.NewIPv4(255, 255, 255, 0)

	// WHEN
	start, end, err := AddressPool(ip, netmask, 4)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "10.10.10.251", start.String())
	assert.Equal(t, "10.10.10.254", end.String())
}

func TestAddressPool_Exhausted(t *testing.T) {
	// GIVEN
	ip := util.NewIPv4(192, 168, 4, 254)
	netmask := util.NewIPv4(255, 255, 255, 254)

	// WHEN
	_, _, err := AddressPool(ip, netmask, 10)

	// THEN
	assert.Error(t, err)
}

func TestHostapdAccessPoint_StartWithServerOnBroadcastAddress(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	ap := NewHostapdAccessPoint(dir, "wlan0", 4)
	c := config.New()
	outcome, err := c.SetValue("dhcps_ip", "10.10.10.255")
	require.NoError(t, err)
	require.Equal(t, config.Applied, outcome)
	require.True(t, config.IsValid(c))

	// WHEN
	err = ap.Start(*c.Wifi, *c.Dhcp)

	// THEN
	require.NoError(t, err)
	assert.True(t, ap.IsRunning())
	udhcpd := readFile(t, filepath.Join(dir, UdhcpdConfigFile))
	assert.Contains(t, udhcpd, "start 10.10.10.251\n")
	assert.Contains(t, udhcpd, "end 10.10.10.254\n")
}

func TestDisabledAccessPoint(t *testing.T) {
	// GIVEN
	ap := NewDisabledAccessPoint()
	c := config.New()

	// THEN
	assert.NoError(t, ap.Start(*c.Wifi, *c.Dhcp))
	assert.False(t, ap.IsRunning())
	assert.NoError(t, ap.Stop())
}
