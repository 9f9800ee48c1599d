package statistics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/controller"
	"github.com/pwmfan/pwmfan/internal/persistence"
	"github.com/pwmfan/pwmfan/internal/pwm"
	"github.com/pwmfan/pwmfan/internal/wifi"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, registry *prometheus.Registry) map[string]*dto.MetricFamily {
	families, err := registry.Gather()
	require.NoError(t, err)
	result := map[string]*dto.MetricFamily{}
	for _, family := range families {
		result[family.GetName()] = family
	}
	return result
}

func findValue(family *dto.MetricFamily, labelValue string) (float64, bool) {
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetValue() != labelValue {
				continue
			}
			if metric.GetGauge() != nil {
				return metric.GetGauge().GetValue(), true
			}
			return metric.GetCounter().GetValue(), true
		}
	}
	return 0, false
}

func TestConfigCollector(t *testing.T) {
	// GIVEN
	store := persistence.NewConfigStore(persistence.NewFileStorage(), filepath.Join(t.TempDir(), "config.cfg"))
	contr := controller.NewController(store, config.New(), pwm.NewMemoryOutput(), wifi.NewDisabledAccessPoint(), time.Second, 10)
	require.NoError(t, contr.Start())
	_, err := contr.UpdateAll([]controller.Update{{Key: "pwm_fan_duty", Value: "999"}}, false)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()

	// WHEN
	Register(registry, NewConfigCollector(contr))
	families := gather(t, registry)

	// THEN
	duty, ok := findValue(families["pwmfan_pwm_duty"], controller.OutputMos)
	require.True(t, ok)
	assert.Equal(t, float64(config.DefaultMosDuty), duty)

	frequency, ok := findValue(families["pwmfan_pwm_frequency"], controller.OutputFan)
	require.True(t, ok)
	assert.Equal(t, float64(config.DefaultFanFrequency), frequency)

	repairs, ok := findValue(families["pwmfan_config_repairs_total"], "pwm_fan_duty")
	require.True(t, ok)
	assert.Equal(t, float64(1), repairs)
}

func TestConfigCollector_ReleasedController(t *testing.T) {
	// GIVEN
	store := persistence.NewConfigStore(persistence.NewFileStorage(), filepath.Join(t.TempDir(), "config.cfg"))
	contr := controller.NewController(store, config.New(), pwm.NewMemoryOutput(), wifi.NewDisabledAccessPoint(), time.Second, 10)
	require.NoError(t, contr.Stop())

	registry := prometheus.NewRegistry()
	Register(registry, NewConfigCollector(contr))

	// WHEN
	families := gather(t, registry)

	// THEN
	assert.NotContains(t, families, "pwmfan_pwm_duty")
}

func TestNewRegistry(t *testing.T) {
	// WHEN
	registry := NewRegistry()

	// THEN
	families := gather(t, registry)
	assert.Contains(t, families, "go_goroutines")
}
