package telemetry

import "github.com/prometheus/client_golang/prometheus"

// NewRegistry returns a fresh Prometheus registry with the standard Go
// runtime and process collectors attached, so every metrics-emitting
// component (the cache and the threshold manager) registers against one
// caller-owned registry instead of prometheus.DefaultRegisterer.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return reg
}
