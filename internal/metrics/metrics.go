// Package metrics wires the Prometheus collectors exposed by the
// server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each instance
// carries its own registry so construction is repeatable.
type Metrics struct {
	registry *prometheus.Registry

	Logins   *prometheus.CounterVec
	Packets  *prometheus.CounterVec
	Online   prometheus.Gauge
	Requests prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herbert_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		Packets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "herbert_packets_total",
			Help: "Client packets handled, by packet id",
		}, []string{"id"}),
		Online: factory.NewGauge(prometheus.GaugeOpts{
			Name: "herbert_online_sessions",
			Help: "Sessions currently online on this process",
		}),
		Requests: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "herbert_request_duration_seconds",
			Help:    "Bancho request handling duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
