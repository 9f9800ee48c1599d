package wifi

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
	"os"
	"path/filepath"
	"sync"
	"text/template"
)

const (
	HostapdConfigFile = "hostapd.conf"
	UdhcpdConfigFile  = "udhcpd.conf"

	leaseTimeSeconds = 864000
)

var hostapdTemplate = template.Must(template.New(HostapdConfigFile).Parse(`interface={{.Interface}}
driver=nl80211
ssid={{.Ssid}}
hw_mode=g
channel={{.Channel}}
max_num_sta={{.MaxConnections}}
ignore_broadcast_ssid=0
{{- if .Secured}}
auth_algs=1
wpa=2
wpa_passphrase={{.Password}}
wpa_key_mgmt=WPA-PSK
rsn_pairwise=CCMP
{{- end}}
`))

var udhcpdTemplate = template.Must(template.New(UdhcpdConfigFile).Parse(`interface {{.Interface}}
start {{.PoolStart}}
end {{.PoolEnd}}
max_leases {{.MaxConnections}}
opt subnet {{.Netmask}}
opt lease {{.LeaseTime}}
{{- if .AsRouter}}
opt router {{.Ip}}
opt dns {{.Ip}}
{{- end}}
`))

// HostapdAccessPoint renders the configuration of hostapd and udhcpd into OutputDir,
// the system services pick them up from there.
type HostapdAccessPoint struct {
	OutputDir      string
	Interface      string
	MaxConnections int

	mu      sync.Mutex
	running bool
}

func NewHostapdAccessPoint(outputDir string, iface string, maxConnections int) *HostapdAccessPoint {
	return &HostapdAccessPoint{
		OutputDir:      outputDir,
		Interface:      iface,
		MaxConnections: maxConnections,
	}
}

type hostapdValues struct {
	Interface      string
	Ssid           string
	Password       string
	Channel        int
	MaxConnections int
	Secured        bool
}

type udhcpdValues struct {
	Interface      string
	Ip             util.IPv4
	Netmask        util.IPv4
	PoolStart      util.IPv4
	PoolEnd        util.IPv4
	MaxConnections int
	LeaseTime      int
	AsRouter       bool
}

func (h *HostapdAccessPoint) Start(ap config.WifiAp, dhcp config.DhcpServer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	secured := len(ap.Password) >= config.MinPasswordLength
	if !secured {
		ui.Warning("WiFi password is shorter than %d characters, access point '%s' will be open", config.MinPasswordLength, ap.Ssid)
	}

	var hostapd bytes.Buffer
	err := hostapdTemplate.Execute(&hostapd, hostapdValues{
		Interface:      h.Interface,
		Ssid:           ap.Ssid,
		Password:       ap.Password,
		Channel:        ap.Channel,
		MaxConnections: h.MaxConnections,
		Secured:        secured,
	})
	if err != nil {
		return err
	}

	start, end, err := AddressPool(dhcp.Ip, dhcp.Netmask, h.MaxConnections)
	if err != nil {
		return err
	}
	var udhcpd bytes.Buffer
	err = udhcpdTemplate.Execute(&udhcpd, udhcpdValues{
		Interface:      h.Interface,
		Ip:             dhcp.Ip,
		Netmask:        dhcp.Netmask,
		PoolStart:      start,
		PoolEnd:        end,
		MaxConnections: h.MaxConnections,
		LeaseTime:      leaseTimeSeconds,
		AsRouter:       dhcp.AsRouter == 1,
	})
	if err != nil {
		return err
	}

	if err = util.WriteFileAtomic(filepath.Join(h.OutputDir, HostapdConfigFile), hostapd.Bytes()); err != nil {
		return fmt.Errorf("unable to write %s: %w", HostapdConfigFile, err)
	}
	if err = util.WriteFileAtomic(filepath.Join(h.OutputDir, UdhcpdConfigFile), udhcpd.Bytes()); err != nil {
		return fmt.Errorf("unable to write %s: %w", UdhcpdConfigFile, err)
	}

	h.running = true
	ui.Info("Access point '%s' on channel %d with address %s", ap.Ssid, ap.Channel, dhcp.Ip)
	return nil
}

// Stop removes the rendered configuration
func (h *HostapdAccessPoint) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for _, name := range []string{HostapdConfigFile, UdhcpdConfigFile} {
		err := os.Remove(filepath.Join(h.OutputDir, name))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	h.running = false
	return errors.Join(errs...)
}

func (h *HostapdAccessPoint) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}
