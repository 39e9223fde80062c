package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all gateway metrics.
type Registry struct {
	// API metrics
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec

	// Lab controller metrics
	LabSwitches    *prometheus.CounterVec
	UpstreamErrors *prometheus.CounterVec

	// Origin gate metrics
	OriginRejects *prometheus.CounterVec

	// Websocket metrics
	WSClients prometheus.Gauge

	// System metrics
	Uptime prometheus.Gauge
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labgate_api_requests_total",
		Help: "Total API requests by method, path and status",
	}, []string{"method", "path", "status"})

	r.APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "labgate_api_request_duration_seconds",
		Help:    "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	r.LabSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labgate_lab_switches_total",
		Help: "Protocol switch attempts by protocol and outcome",
	}, []string{"protocol", "outcome"})

	r.UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labgate_upstream_errors_total",
		Help: "Failed lab controller calls by operation",
	}, []string{"operation"})

	r.OriginRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labgate_origin_rejects_total",
		Help: "Requests rejected or flagged by the origin gate",
	}, []string{"mode"})

	r.WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "labgate_websocket_clients",
		Help: "Currently connected websocket clients",
	})

	r.Uptime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "labgate_uptime_seconds",
		Help: "Gateway uptime in seconds",
	})

	return r
}
