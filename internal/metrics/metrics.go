// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics. Methods are safe on a nil receiver
// so that components can run without metrics in tests.
type Registry struct {
	reg *prometheus.Registry

	RelayRequests *prometheus.CounterVec
	RelayCache    *prometheus.CounterVec
	RelayUpstream *prometheus.HistogramVec
	FetchFailures *prometheus.CounterVec
	TickDuration  *prometheus.HistogramVec
	PublishedSeq  *prometheus.GaugeVec
	WSClients     prometheus.Gauge
	NotifierSent  *prometheus.CounterVec
}

// NewRegistry creates a registry with every collector registered, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RelayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_relay_requests_total",
				Help: "Relay requests by target and response status",
			},
			[]string{"target", "status"},
		),
		RelayCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_relay_cache_total",
				Help: "Relay cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		RelayUpstream: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulse_relay_upstream_seconds",
				Help:    "Latency of relay upstream requests in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"target"},
		),
		FetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_fetch_failures_total",
				Help: "Failed upstream fetches by source",
			},
			[]string{"source"},
		),
		TickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulse_tick_duration_seconds",
				Help:    "Duration of one polling tick by page",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"page"},
		),
		PublishedSeq: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pulse_board_published_seq",
				Help: "Sequence number of the latest published snapshot by page",
			},
			[]string{"page"},
		),
		WSClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pulse_ws_clients",
				Help: "Connected websocket clients",
			},
		),
		NotifierSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_notifier_messages_total",
				Help: "Telegram messages by result",
			},
			[]string{"result"},
		),
	}
	r.reg.MustRegister(
		r.RelayRequests, r.RelayCache, r.RelayUpstream, r.FetchFailures,
		r.TickDuration, r.PublishedSeq, r.WSClients, r.NotifierSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Registry) RelayRequest(target string, status int) {
	if r == nil {
		return
	}
	r.RelayRequests.WithLabelValues(target, strconv.Itoa(status)).Inc()
}

func (r *Registry) RelayCacheResult(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.RelayCache.WithLabelValues(result).Inc()
}

func (r *Registry) ObserveUpstream(target string, d time.Duration) {
	if r == nil {
		return
	}
	r.RelayUpstream.WithLabelValues(target).Observe(d.Seconds())
}

func (r *Registry) FetchFailed(source string) {
	if r == nil {
		return
	}
	r.FetchFailures.WithLabelValues(source).Inc()
}

func (r *Registry) ObserveTick(page string, d time.Duration) {
	if r == nil {
		return
	}
	r.TickDuration.WithLabelValues(page).Observe(d.Seconds())
}

func (r *Registry) Published(page string, seq uint64) {
	if r == nil {
		return
	}
	r.PublishedSeq.WithLabelValues(page).Set(float64(seq))
}

func (r *Registry) WSConnected(delta float64) {
	if r == nil {
		return
	}
	r.WSClients.Add(delta)
}

func (r *Registry) NotifierResult(ok bool) {
	if r == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	r.NotifierSent.WithLabelValues(result).Inc()
}
