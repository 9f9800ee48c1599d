package config

import (
	"fmt"
	"strconv"

	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
)

// Outcome describes how an update was applied
type Outcome int

const (
	// Applied means the given value was stored as is
	Applied Outcome = iota
	// Repaired means the given value was invalid and the repair value of the key was stored instead
	Repaired
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Repaired:
		return "repaired"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// SetValue updates a single key of the config.
//
// Values that cannot be parsed or are out of range are replaced by the repair value
// of the key; this is logged and reported as Repaired, not as an error.
// Unknown keys return ErrUnknownKey and leave the config untouched.
func (c *Config) SetValue(name string, value string) (Outcome, error) {
	key, ok := LookupKey(name)
	if !ok {
		return Applied, unknownKeyError(name)
	}
	return c.Set(key, value)
}

// Set is like SetValue for an already resolved key
func (c *Config) Set(key Key, value string) (Outcome, error) {
	if !key.valid() {
		return Applied, unknownKeyError(key.String())
	}
	if !c.complete() {
		return Applied, fmt.Errorf("%w: config is incomplete", ErrInvalidConfig)
	}

	spec := key.spec()
	outcome := Applied
	switch spec.kind {
	case KindInt:
		v := util.ParseInt(value)
		if !util.InRange(v, spec.min, spec.max) {
			ui.Warning("Invalid value '%s' for %s (allowed: [%d..%d]), using %d", value, spec.name, spec.min, spec.max, spec.repairInt)
			v = spec.repairInt
			outcome = Repaired
		}
		*spec.intField(c) = v
	case KindString:
		v := value
		if !spec.acceptsString(v) {
			ui.Warning("Invalid value '%s' for %s, using '%s'", value, spec.name, spec.repairString)
			v = spec.repairString
			outcome = Repaired
		} else if len(v) < spec.warnMin {
			ui.Warning("Value of %s is shorter than %d characters", spec.name, spec.warnMin)
		}
		*spec.stringField(c) = util.CloneString(&v)
	case KindIPv4:
		ip, parsed := util.ParseIPv4(value)
		if !parsed || !spec.addrValid(ip) {
			ui.Warning("Invalid address '%s' for %s, using %s", value, spec.name, spec.repairAddr)
			ip = spec.repairAddr
			outcome = Repaired
		}
		*spec.addrField(c) = ip
	}

	ui.Debug("Set %s to '%s' (%s)", spec.name, c.format(key), outcome)
	return outcome, nil
}

// GetValue returns the textual value of a key, as it is persisted.
// The config has to be valid.
func (c *Config) GetValue(name string) (string, error) {
	key, ok := LookupKey(name)
	if !ok {
		return "", unknownKeyError(name)
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c.format(key), nil
}

// GetInt returns the numeric value of an integer or address key.
// Addresses are returned in their packed form.
func (c *Config) GetInt(name string) (int, error) {
	key, ok := LookupKey(name)
	if !ok {
		return 0, unknownKeyError(name)
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}
	spec := key.spec()
	switch spec.kind {
	case KindInt:
		return *spec.intField(c), nil
	case KindIPv4:
		return int(*spec.addrField(c)), nil
	}
	return 0, fmt.Errorf("key %s is not numeric", spec.name)
}

// Values returns the textual value of every key. The config has to be valid.
func (c *Config) Values() (map[string]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	result := make(map[string]string, keyCount)
	for _, key := range Keys() {
		result[key.String()] = c.format(key)
	}
	return result, nil
}

// format renders the current value of key, the config must be complete
func (c *Config) format(key Key) string {
	spec := key.spec()
	switch spec.kind {
	case KindString:
		return *spec.stringField(c)
	case KindIPv4:
		return spec.addrField(c).String()
	default:
		return formatInt(*spec.intField(c))
	}
}

func (s *keySpec) acceptsString(value string) bool {
	return util.InRange(len(value), s.min, s.max) && hasOnlyAllowedChars(value)
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}
