package statistics

import (
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/controller"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/prometheus/client_golang/prometheus"
)

const pwmSubsystem = "pwm"
const configSubsystem = "config"

type ConfigCollector struct {
	controller controller.Controller

	duty      *prometheus.Desc
	avgDuty   *prometheus.Desc
	maxDuty   *prometheus.Desc
	frequency *prometheus.Desc
	repairs   *prometheus.Desc
}

func NewConfigCollector(contr controller.Controller) *ConfigCollector {
	return &ConfigCollector{
		controller: contr,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, pwmSubsystem, "duty"),
			"Current duty cycle of the PWM output (0-255)",
			[]string{"id"}, nil,
		),
		avgDuty: prometheus.NewDesc(prometheus.BuildFQName(namespace, pwmSubsystem, "duty_avg"),
			"Average duty cycle of the PWM output over the history window",
			[]string{"id"}, nil,
		),
		maxDuty: prometheus.NewDesc(prometheus.BuildFQName(namespace, pwmSubsystem, "duty_max"),
			"Highest duty cycle of the PWM output over the history window",
			[]string{"id"}, nil,
		),
		frequency: prometheus.NewDesc(prometheus.BuildFQName(namespace, pwmSubsystem, "frequency"),
			"Current frequency of the PWM output in Hz",
			[]string{"id"}, nil,
		),
		repairs: prometheus.NewDesc(prometheus.BuildFQName(namespace, configSubsystem, "repairs_total"),
			"Number of config updates that were replaced with the default value of the key",
			[]string{"key"}, nil,
		),
	}
}

func (collector *ConfigCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
	ch <- collector.avgDuty
	ch <- collector.maxDuty
	ch <- collector.frequency
	ch <- collector.repairs
}

// Collect implements required collect function for all prometheus collectors
func (collector *ConfigCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot, err := collector.controller.Snapshot()
	if err != nil {
		ui.Debug("Skipping config metrics: %v", err)
		return
	}
	defer config.Release(&snapshot)

	channels := map[string]*config.PwmChannel{
		controller.OutputFan: snapshot.Fan,
		controller.OutputMos: snapshot.Mos,
	}
	for id, channel := range channels {
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, float64(channel.Duty), id)
		ch <- prometheus.MustNewConstMetric(collector.frequency, prometheus.GaugeValue, float64(channel.Frequency), id)
	}

	stats := collector.controller.Statistics()
	for id, avg := range stats.AvgDuty {
		ch <- prometheus.MustNewConstMetric(collector.avgDuty, prometheus.GaugeValue, avg, id)
	}
	for id, max := range stats.MaxDuty {
		ch <- prometheus.MustNewConstMetric(collector.maxDuty, prometheus.GaugeValue, max, id)
	}
	for key, count := range stats.Repairs {
		ch <- prometheus.MustNewConstMetric(collector.repairs, prometheus.CounterValue, float64(count), key)
	}
}
