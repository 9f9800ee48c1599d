package controller

import (
	"context"
	"errors"
	"fmt"
	"github.com/asecurityteam/rolling"
	"github.com/oklog/run"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/persistence"
	"github.com/pwmfan/pwmfan/internal/pwm"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
	"github.com/pwmfan/pwmfan/internal/wifi"
	"sync"
	"time"
)

const (
	OutputFan = "fan"
	OutputMos = "mos"
)

// ErrReleased is returned once the controller has been stopped and its config released
var ErrReleased = errors.New("controller config has been released")

// Update is a single key/value assignment
type Update struct {
	Key   string
	Value string
}

type Statistics struct {
	// Repairs counts repaired updates per key
	Repairs map[string]int
	// AvgDuty is the average duty per output over the rolling window
	AvgDuty map[string]float64
	// MaxDuty is the highest duty per output over the rolling window
	MaxDuty map[string]float64
}

// Controller owns the live device config.
// All methods are serialized, so a read-modify-persist sequence of UpdateAll
// is never interleaved with another request.
type Controller interface {
	Run(ctx context.Context) error

	Start() error
	Stop() error

	Update(key string, value string) (config.Outcome, error)
	UpdateAll(updates []Update, save bool) ([]config.Outcome, error)
	Apply() error
	Save() error
	Reset() error

	Snapshot() (*config.Config, error)
	Values() (map[string]string, error)
	History(id string) ([]float64, error)
	Statistics() Statistics
}

type DefaultController struct {
	mu sync.Mutex

	store  *persistence.ConfigStore
	config *config.Config
	output pwm.Output
	ap     wifi.AccessPoint

	tickRate    time.Duration
	historySize int

	started     bool
	lastApplied map[string]config.PwmChannel
	lastWifi    *config.WifiAp
	lastDhcp    *config.DhcpServer

	history map[string][]float64
	windows map[string]*rolling.PointPolicy
	repairs cmap.ConcurrentMap[string, int]
}

func NewController(
	store *persistence.ConfigStore,
	cfg *config.Config,
	output pwm.Output,
	ap wifi.AccessPoint,
	tickRate time.Duration,
	historySize int,
) *DefaultController {
	c := &DefaultController{
		store:       store,
		config:      cfg,
		output:      output,
		ap:          ap,
		tickRate:    tickRate,
		historySize: historySize,
		lastApplied: map[string]config.PwmChannel{},
		history:     map[string][]float64{},
		windows:     map[string]*rolling.PointPolicy{},
		repairs:     cmap.New[int](),
	}
	for _, id := range []string{OutputFan, OutputMos} {
		c.windows[id] = util.CreateRollingWindow(historySize)
	}
	return c
}

// Run starts the controller and periodically re-applies the current duty cycles until ctx is done
func (c *DefaultController) Run(ctx context.Context) error {
	err := c.Start()
	if err != nil {
		return err
	}

	var g run.Group
	{
		g.Add(func() error {
			tick := time.NewTicker(c.tickRate)
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick.C:
					err := c.Apply()
					if errors.Is(err, ErrReleased) {
						return nil
					}
					if err != nil {
						ui.Error("Error applying duty cycles: %v", err)
					}
				}
			}
		}, func(err error) {
			if err != nil {
				ui.Warning("Error in controller loop: %v", err)
			}
		})
	}

	err = g.Run()
	stopErr := c.Stop()
	if err == nil {
		err = stopErr
	}
	return err
}

// Start configures both PWM outputs and brings up the access point
func (c *DefaultController) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config == nil {
		return ErrReleased
	}
	if err := c.config.Validate(); err != nil {
		return err
	}

	for id, channel := range c.channels() {
		err := c.output.Configure(id, *channel)
		if err != nil {
			return err
		}
		c.lastApplied[id] = *channel
		c.record(id, channel.Duty)
	}

	c.startAccessPoint()

	c.started = true
	ui.Info("Controller started")
	return nil
}

// Stop disables both outputs, stops the access point and releases the config
func (c *DefaultController) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config == nil {
		return nil
	}

	var errs []error
	if c.started {
		for id, channel := range c.channels() {
			if err := c.output.Disable(id, *channel); err != nil {
				errs = append(errs, err)
			}
		}
		if err := c.ap.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	c.started = false
	config.Release(&c.config)

	ui.Info("Controller stopped")
	return errors.Join(errs...)
}

// Update sets a single key of the live config without applying or saving it
func (c *DefaultController) Update(key string, value string) (config.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.update(key, value)
}

func (c *DefaultController) update(key string, value string) (config.Outcome, error) {
	if c.config == nil {
		return config.Applied, ErrReleased
	}
	outcome, err := c.config.SetValue(key, value)
	if err != nil {
		return outcome, err
	}
	if outcome == config.Repaired {
		c.repairs.Upsert(key, 1, func(exist bool, valueInMap int, newValue int) int {
			if exist {
				return valueInMap + newValue
			}
			return newValue
		})
	}
	return outcome, nil
}

// UpdateAll sets all given keys, applies the result and optionally saves it.
// If any key is unknown, nothing is changed.
func (c *DefaultController) UpdateAll(updates []Update, save bool) ([]config.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, u := range updates {
		if _, ok := config.LookupKey(u.Key); !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownKey, u.Key)
		}
	}

	if c.config == nil {
		return nil, ErrReleased
	}
	previous := c.config.Clone()

	outcomes := make([]config.Outcome, 0, len(updates))
	for _, u := range updates {
		outcome, err := c.update(u.Key, u.Value)
		if err != nil {
			c.restore(previous)
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}

	if err := c.apply(); err != nil {
		ui.Warning("Unable to apply updated config, restoring the previous one: %v", err)
		c.restore(previous)
		if restoreErr := c.apply(); restoreErr != nil {
			ui.Error("Unable to apply previous config: %v", restoreErr)
		}
		return outcomes, err
	}
	config.Release(&previous)
	if save {
		return outcomes, c.save()
	}
	return outcomes, nil
}

// Apply pushes the live config to the outputs and the access point
func (c *DefaultController) Apply() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply()
}

func (c *DefaultController) apply() error {
	if c.config == nil {
		return ErrReleased
	}
	if !c.started {
		return nil
	}

	for id, channel := range c.channels() {
		last, ok := c.lastApplied[id]
		var err error
		if !ok || last.Channel != channel.Channel || last.Frequency != channel.Frequency || last.Gpio != channel.Gpio {
			if ok && last.Channel != channel.Channel {
				if err := c.output.Disable(id, last); err != nil {
					ui.Warning("Unable to disable previous channel %d of %s: %v", last.Channel, id, err)
				}
				delete(c.lastApplied, id)
			}
			err = c.output.Configure(id, *channel)
		} else {
			err = c.output.SetDuty(id, *channel)
		}
		if err != nil {
			return err
		}
		c.lastApplied[id] = *channel
		c.record(id, channel.Duty)
	}

	if c.lastWifi == nil || *c.lastWifi != *c.config.Wifi || c.lastDhcp == nil || *c.lastDhcp != *c.config.Dhcp {
		c.startAccessPoint()
	}
	return nil
}

// startAccessPoint (re)starts the access point with the live config.
// A failure is logged and not retried until the wifi or dhcp section changes,
// the outputs keep running without the access point.
func (c *DefaultController) startAccessPoint() {
	wifiAp := *c.config.Wifi
	dhcp := *c.config.Dhcp
	c.lastWifi = &wifiAp
	c.lastDhcp = &dhcp

	if err := c.ap.Start(wifiAp, dhcp); err != nil {
		ui.Error("Unable to start access point: %v", err)
	}
}

// restore replaces the live config with a previous copy
func (c *DefaultController) restore(previous *config.Config) {
	config.Release(&c.config)
	c.config = previous
}

// Save persists the live config
func (c *DefaultController) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save()
}

func (c *DefaultController) save() error {
	if c.config == nil {
		return ErrReleased
	}
	return c.store.Save(c.config)
}

// Reset replaces the live and the persisted config with the defaults and applies them
func (c *DefaultController) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config == nil {
		return ErrReleased
	}
	defaults, err := c.store.Reset()
	if err != nil {
		return err
	}
	config.Release(&c.config)
	c.config = defaults
	return c.apply()
}

// Snapshot returns a deep copy of the live config
func (c *DefaultController) Snapshot() (*config.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config == nil {
		return nil, ErrReleased
	}
	return c.config.Clone(), nil
}

func (c *DefaultController) Values() (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config == nil {
		return nil, ErrReleased
	}
	return c.config.Values()
}

// History returns the most recently applied duty cycles of an output, oldest first
func (c *DefaultController) History(id string) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.windows[id]; !ok {
		return nil, fmt.Errorf("unknown output '%s', use one of: %s | %s", id, OutputFan, OutputMos)
	}
	result := make([]float64, len(c.history[id]))
	copy(result, c.history[id])
	return result, nil
}

func (c *DefaultController) Statistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	avg := map[string]float64{}
	max := map[string]float64{}
	for id, window := range c.windows {
		if len(c.history[id]) > 0 {
			avg[id] = util.GetWindowAvg(window)
			max[id] = util.GetWindowMax(window)
		}
	}
	return Statistics{
		Repairs: c.repairs.Items(),
		AvgDuty: avg,
		MaxDuty: max,
	}
}

func (c *DefaultController) channels() map[string]*config.PwmChannel {
	return map[string]*config.PwmChannel{
		OutputFan: c.config.Fan,
		OutputMos: c.config.Mos,
	}
}

// record appends an applied duty to the history of the output
func (c *DefaultController) record(id string, duty int) {
	window := c.windows[id]
	if len(c.history[id]) == 0 {
		// start from a full window, so the average is not skewed by empty points
		util.FillWindow(window, c.historySize, float64(duty))
	} else {
		window.Append(float64(duty))
	}
	c.history[id] = util.AppendCapped(c.history[id], float64(duty), c.historySize)
}
