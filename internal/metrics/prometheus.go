package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry        *prometheus.Registry
	deposits        *prometheus.CounterVec
	depositDuration prometheus.Histogram
	vaultChecks     *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		deposits: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "income_deposits_total",
			Help: "Income deposits processed, by outcome",
		}, []string{"outcome"}),
		depositDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "income_deposit_duration_seconds",
			Help:    "Time taken to process an income deposit, lock wait included",
			Buckets: prometheus.DefBuckets,
		}),
		vaultChecks: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "tax_vault_access_checks_total",
			Help: "Tax vault access decisions",
		}, []string{"allowed"}),
	}
}

// ObserveDeposit implements ledger.Recorder.
func (c *Collector) ObserveDeposit(outcome string, seconds float64) {
	c.deposits.WithLabelValues(outcome).Inc()
	c.depositDuration.Observe(seconds)
}

// ObserveVaultCheck counts one gate decision.
func (c *Collector) ObserveVaultCheck(allowed bool) {
	label := "false"
	if allowed {
		label = "true"
	}

	c.vaultChecks.WithLabelValues(label).Inc()
}

// Registry exposes the registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
