package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pwmfan/pwmfan/internal/ui"
)

// MaxTokenSize is the exclusive upper bound for the length of a single key or value
const MaxTokenSize = 128

// Decode parses a "key=value" per line config.
//
// Decoding starts from the default config and applies every line on top of it,
// so the result is always valid: invalid values are repaired, unknown keys and
// lines without '=' are skipped. Scanning stops at a NUL byte.
// A key or value of MaxTokenSize bytes or more aborts the decode; the returned
// config keeps all assignments made until then and the error wraps ErrTokenTooLong.
// The returned config is never nil.
func Decode(data []byte) (*Config, error) {
	config := New()

	keyStart := 0
	valueStart := 0
	inValue := false
	key := ""

	for i := 0; i <= len(data); i++ {
		end := i == len(data) || data[i] == 0

		if !end && data[i] == '=' && !inValue {
			if i-keyStart >= MaxTokenSize {
				return config, fmt.Errorf("%w: key at offset %d", ErrTokenTooLong, keyStart)
			}
			key = string(data[keyStart:i])
			valueStart = i + 1
			inValue = true
			continue
		}

		if !end && data[i] != '\n' {
			continue
		}

		if inValue {
			if i-valueStart >= MaxTokenSize {
				return config, fmt.Errorf("%w: value of %s", ErrTokenTooLong, key)
			}
			value := strings.TrimSuffix(string(data[valueStart:i]), "\r")
			config.applyDecoded(key, value)
		} else if i > keyStart {
			if i-keyStart >= MaxTokenSize {
				return config, fmt.Errorf("%w: line at offset %d", ErrTokenTooLong, keyStart)
			}
			ui.Debug("Skipping config line without '=': %s", strings.TrimSpace(string(data[keyStart:i])))
		}

		if end {
			break
		}
		inValue = false
		key = ""
		keyStart = i + 1
	}

	return config, nil
}

func (c *Config) applyDecoded(key string, value string) {
	ui.Debug("Read key [%s] value [%s]", key, value)
	_, err := c.SetValue(key, value)
	if errors.Is(err, ErrUnknownKey) {
		ui.Warning("Ignoring unknown config key: %s", key)
	} else if err != nil {
		ui.Error("Unable to apply config key %s: %v", key, err)
	}
}

// Encode renders the config as one "key=value" line per key.
// Invalid configs are refused.
func Encode(c *Config) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, key := range Keys() {
		buf.WriteString(key.String())
		buf.WriteByte('=')
		buf.WriteString(c.format(key))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
