package configuration

import (
	"fmt"
	"github.com/mitchellh/mapstructure"
	"reflect"
	"strconv"
)

// OverridesHookFunc returns a mapstructure decode hook that converts the scalar values
// of a map into strings, so that YAML like `pwm_fan_duty: 80` decodes into map[string]string.
func OverridesHookFunc() mapstructure.DecodeHookFuncType {
	overridesType := reflect.TypeOf(map[string]string{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != overridesType {
			return data, nil
		}

		switch v := data.(type) {
		case map[string]interface{}:
			result := make(map[string]string, len(v))
			for key, value := range v {
				text, err := scalarToString(value)
				if err != nil {
					return nil, fmt.Errorf("override %s: %w", key, err)
				}
				result[key] = text
			}
			return result, nil
		case map[interface{}]interface{}:
			result := make(map[string]string, len(v))
			for key, value := range v {
				text, err := scalarToString(value)
				if err != nil {
					return nil, fmt.Errorf("override %v: %w", key, err)
				}
				result[fmt.Sprintf("%v", key)] = text
			}
			return result, nil
		}
		return data, nil
	}
}

// scalarToString converts numeric, boolean and string values to their textual form.
// Booleans become 0 or 1, like the flags of the device config.
func scalarToString(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", v)
	}
}
