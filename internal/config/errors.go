package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKey is returned when a key is not part of the config
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidConfig is returned when a config is incomplete or one of its values is out of range
	ErrInvalidConfig = errors.New("invalid config")
	// ErrTokenTooLong is returned when a key or value exceeds MaxTokenSize while decoding
	ErrTokenTooLong = errors.New("config token too long")
)

func unknownKeyError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownKey, name)
}
