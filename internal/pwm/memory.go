package pwm

import (
	"fmt"
	"github.com/pwmfan/pwmfan/internal/config"
	"sync"
)

// MemoryOutput keeps the applied state in memory only.
// It is used when no PWM hardware is configured.
type MemoryOutput struct {
	mu       sync.Mutex
	channels map[string]config.PwmChannel
	enabled  map[string]bool
}

func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{
		channels: map[string]config.PwmChannel{},
		enabled:  map[string]bool{},
	}
}

func (o *MemoryOutput) Configure(id string, channel config.PwmChannel) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.channels[id] = channel
	o.enabled[id] = true
	return nil
}

func (o *MemoryOutput) SetDuty(id string, channel config.PwmChannel) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.channels[id]; !ok {
		return fmt.Errorf("%s: output is not configured", id)
	}
	o.channels[id] = channel
	return nil
}

func (o *MemoryOutput) GetDuty(id string, channel config.PwmChannel) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	current, ok := o.channels[id]
	if !ok {
		return MinDutyValue, fmt.Errorf("%s: output is not configured", id)
	}
	return current.Duty, nil
}

func (o *MemoryOutput) Disable(id string, channel config.PwmChannel) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enabled[id] = false
	return nil
}

// IsEnabled reports whether the output has been configured and not disabled since
func (o *MemoryOutput) IsEnabled(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled[id]
}
