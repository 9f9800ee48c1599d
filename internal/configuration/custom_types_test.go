package configuration

import (
	"reflect"
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverridesHookFunc(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"pwm_fan_duty":    80,
		"wifi_ssid":       "garage",
		"dhcps_as_router": true,
		"pwm_fan_gpio":    int64(5),
		"wifi_channel":    6.0,
	}
	hook := OverridesHookFunc()

	// WHEN
	result, err := hook(reflect.TypeOf(input), reflect.TypeOf(map[string]string{}), input)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"pwm_fan_duty":    "80",
		"wifi_ssid":       "garage",
		"dhcps_as_router": "1",
		"pwm_fan_gpio":    "5",
		"wifi_channel":    "6",
	}, result)
}

func TestOverridesHookFunc_IgnoresOtherTypes(t *testing.T) {
	// GIVEN
	hook := OverridesHookFunc()

	// WHEN
	result, err := hook(reflect.TypeOf(""), reflect.TypeOf(""), "value")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "value", result)
}

func TestOverridesHookFunc_UnsupportedValue(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"pwm_fan_duty": []int{1, 2},
	}
	hook := OverridesHookFunc()

	// WHEN
	_, err := hook(reflect.TypeOf(input), reflect.TypeOf(map[string]string{}), input)

	// THEN
	assert.Error(t, err)
}

func TestDecodeHook(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"controllerAdjustmentTickRate": "250ms",
		"historySize":                  10,
		"overrides": map[string]interface{}{
			"pwm_mos_duty": 12,
		},
	}
	var result Configuration
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: decodeHook(),
		Result:     &result,
	})
	require.NoError(t, err)

	// WHEN
	err = decoder.Decode(input)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, result.ControllerAdjustmentTickRate)
	assert.Equal(t, 10, result.HistorySize)
	assert.Equal(t, map[string]string{"pwm_mos_duty": "12"}, result.Overrides)
}
