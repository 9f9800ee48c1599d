package pwm

import (
	"fmt"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
	"math"
	"path/filepath"
	"strconv"
)

const nanosPerSecond = 1_000_000_000

// SysfsOutput drives a pwmchip of the linux sysfs PWM interface
type SysfsOutput struct {
	ChipPath string
}

func NewSysfsOutput(chipPath string) *SysfsOutput {
	return &SysfsOutput{
		ChipPath: chipPath,
	}
}

func (o *SysfsOutput) channelPath(channel config.PwmChannel, file string) string {
	return filepath.Join(o.ChipPath, "pwm"+strconv.Itoa(channel.Channel), file)
}

// PeriodNanos returns the signal period for the given frequency
func PeriodNanos(frequency int) int {
	if frequency <= 0 {
		return 0
	}
	return nanosPerSecond / frequency
}

// DutyNanos maps a duty in [0..255] onto the given period
func DutyNanos(period int, duty int) int {
	duty = util.Clamp(duty, MinDutyValue, MaxDutyValue)
	return int(math.Round(float64(period) * float64(duty) / MaxDutyValue))
}

func (o *SysfsOutput) export(id string, channel config.PwmChannel) error {
	channelDir := filepath.Join(o.ChipPath, "pwm"+strconv.Itoa(channel.Channel))
	if util.FileExists(channelDir) {
		return nil
	}
	ui.Debug("Exporting PWM channel %d of %s for %s", channel.Channel, o.ChipPath, id)
	return util.WriteIntToFile(channel.Channel, filepath.Join(o.ChipPath, "export"))
}

func (o *SysfsOutput) Configure(id string, channel config.PwmChannel) error {
	err := o.export(id, channel)
	if err != nil {
		return fmt.Errorf("%s: unable to export channel %d: %w", id, channel.Channel, err)
	}

	// the duty cycle must never exceed the period, so it is cleared before the period changes
	err = util.WriteIntToFile(0, o.channelPath(channel, "duty_cycle"))
	if err != nil {
		return fmt.Errorf("%s: unable to reset duty cycle: %w", id, err)
	}
	period := PeriodNanos(channel.Frequency)
	err = util.WriteIntToFile(period, o.channelPath(channel, "period"))
	if err != nil {
		return fmt.Errorf("%s: unable to set period: %w", id, err)
	}
	err = o.SetDuty(id, channel)
	if err != nil {
		return err
	}
	err = util.WriteIntToFile(1, o.channelPath(channel, "enable"))
	if err != nil {
		return fmt.Errorf("%s: unable to enable channel %d: %w", id, channel.Channel, err)
	}

	ui.Info("Configured %s on channel %d (gpio %d) with %d Hz", id, channel.Channel, channel.Gpio, channel.Frequency)
	return nil
}

func (o *SysfsOutput) SetDuty(id string, channel config.PwmChannel) error {
	period := PeriodNanos(channel.Frequency)
	err := util.WriteIntToFile(DutyNanos(period, channel.Duty), o.channelPath(channel, "duty_cycle"))
	if err != nil {
		return fmt.Errorf("%s: unable to set duty cycle: %w", id, err)
	}
	ui.Debug("Set duty of %s to %d", id, channel.Duty)
	return nil
}

func (o *SysfsOutput) GetDuty(id string, channel config.PwmChannel) (int, error) {
	period, err := util.ReadIntFromFile(o.channelPath(channel, "period"))
	if err != nil {
		return MinDutyValue, err
	}
	if period <= 0 {
		return MinDutyValue, fmt.Errorf("%s: invalid period %d", id, period)
	}
	dutyCycle, err := util.ReadIntFromFile(o.channelPath(channel, "duty_cycle"))
	if err != nil {
		return MinDutyValue, err
	}
	duty := int(math.Round(float64(dutyCycle) * MaxDutyValue / float64(period)))
	return util.Clamp(duty, MinDutyValue, MaxDutyValue), nil
}

func (o *SysfsOutput) Disable(id string, channel config.PwmChannel) error {
	err := util.WriteIntToFile(0, o.channelPath(channel, "enable"))
	if err != nil {
		return fmt.Errorf("%s: unable to disable channel %d: %w", id, channel.Channel, err)
	}
	return nil
}
