package metrics

import "github.com/gridpool/scr/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort is where the scrape endpoint listens when a prom sink
	// is configured, e.g. ":9090".
	PrometheusPort string `json:"prometheus_port"`
}
