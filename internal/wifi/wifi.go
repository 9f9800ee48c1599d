package wifi

import (
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
)

// AccessPoint brings up the WiFi access point and its DHCP server
type AccessPoint interface {
	Start(ap config.WifiAp, dhcp config.DhcpServer) error
	Stop() error
	IsRunning() bool
}

type disabledAccessPoint struct{}

// NewDisabledAccessPoint returns an access point that only logs, used when wifi is disabled
func NewDisabledAccessPoint() AccessPoint {
	return &disabledAccessPoint{}
}

func (d disabledAccessPoint) Start(ap config.WifiAp, dhcp config.DhcpServer) error {
	ui.Info("WiFi is disabled, not starting access point '%s'", ap.Ssid)
	return nil
}

func (d disabledAccessPoint) Stop() error {
	return nil
}

func (d disabledAccessPoint) IsRunning() bool {
	return false
}
