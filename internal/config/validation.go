package config

import (
	"fmt"

	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
)

// IsValid reports whether the config is complete and every value is within its range
func IsValid(c *Config) bool {
	return c.Validate() == nil
}

// Validate checks every key in encoding order and returns an error describing
// the first violation. A password shorter than MinPasswordLength is only logged.
func (c *Config) Validate() error {
	if !c.complete() {
		return fmt.Errorf("%w: config is incomplete", ErrInvalidConfig)
	}

	for _, key := range Keys() {
		spec := key.spec()
		switch spec.kind {
		case KindInt:
			v := *spec.intField(c)
			if !util.InRange(v, spec.min, spec.max) {
				return fmt.Errorf("%w: %s=%d is out of range [%d..%d]", ErrInvalidConfig, spec.name, v, spec.min, spec.max)
			}
		case KindString:
			v := *spec.stringField(c)
			if !util.InRange(len(v), spec.min, spec.max) {
				return fmt.Errorf("%w: length of %s must be in [%d..%d], was %d", ErrInvalidConfig, spec.name, spec.min, spec.max, len(v))
			}
			if !hasOnlyAllowedChars(v) {
				return fmt.Errorf("%w: %s contains unsupported characters", ErrInvalidConfig, spec.name)
			}
			if len(v) < spec.warnMin {
				ui.Warning("Value of %s is shorter than %d characters", spec.name, spec.warnMin)
			}
		case KindIPv4:
			v := *spec.addrField(c)
			if !spec.addrValid(v) {
				return fmt.Errorf("%w: %s=%s is not a usable address", ErrInvalidConfig, spec.name, v)
			}
		}
	}

	return nil
}
