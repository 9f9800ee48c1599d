package pwm

import (
	"github.com/pwmfan/pwmfan/internal/config"
)

const (
	MaxDutyValue = config.MaxPwmDuty
	MinDutyValue = config.MinPwmDuty
)

// Output drives the PWM peripheral of the controller.
// Every method receives the full channel config, id names the output ("fan" or "mos").
type Output interface {
	// Configure prepares the channel for the configured frequency and applies its duty
	Configure(id string, channel config.PwmChannel) error
	// SetDuty applies the duty of the channel
	SetDuty(id string, channel config.PwmChannel) error
	// GetDuty returns the currently applied duty in [0..255]
	GetDuty(id string, channel config.PwmChannel) (int, error)
	// Disable stops the signal of the channel
	Disable(id string, channel config.PwmChannel) error
}
