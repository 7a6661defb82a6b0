package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledgermesh"

// Dispatch results used as the "result" label.
const (
	ResultOK             = "ok"
	ResultError          = "error"
	ResultNotImplemented = "not_implemented"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// DispatchTotal counts dispatched commands by command and result.
	DispatchTotal *prometheus.CounterVec
	// DispatchDuration observes handler latency by command.
	DispatchDuration *prometheus.HistogramVec
	// ConfigReloads counts configuration reloads by result.
	ConfigReloads *prometheus.CounterVec
	// Workers reports the resolved worker process count.
	Workers prometheus.Gauge
}

// NewRegistry creates a metrics registry with Go runtime, process and build
// information collectors already registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Number of dispatched commands.",
		}, []string{"command", "result"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent bootstrapping and running a command handler.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		ConfigReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_reloads_total",
			Help:      "Number of configuration reloads.",
		}, []string{"result"}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Resolved worker process count.",
		}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		NewBuildCollector(),
		r.DispatchTotal,
		r.DispatchDuration,
		r.ConfigReloads,
		r.Workers,
	)
	return r
}

// ObserveDispatch records one dispatch outcome.
func (r *Registry) ObserveDispatch(command, result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.DispatchTotal.WithLabelValues(command, result).Inc()
	r.DispatchDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveReload records one configuration reload.
func (r *Registry) ObserveReload(err error) {
	if r == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.ConfigReloads.WithLabelValues(result).Inc()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
