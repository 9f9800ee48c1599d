package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	namespace = "pwmfan"
)

// Registry is used both to register collectors and to serve them
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// NewRegistry creates a registry that already exports go runtime and process metrics
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func Register(registry prometheus.Registerer, collector prometheus.Collector) {
	registry.MustRegister(collector)
}
