package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartOpsTotal counts cart mutations by operation.
	CartOpsTotal *prometheus.CounterVec
	// CatalogLoadTotal counts catalog loader activations by outcome.
	CatalogLoadTotal *prometheus.CounterVec
	// CatalogFetchLatency records catalog fetch latency in milliseconds.
	CatalogFetchLatency *prometheus.HistogramVec
	// CartSessions tracks the number of live cart sessions.
	CartSessions prometheus.Gauge
)

// MustRegisterDomainMetrics initialises and registers domain-specific
// Prometheus collectors. Safe to call more than once.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Count of cart mutations by operation.",
		}, []string{"op"})
		CatalogLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_load_total",
			Help:      "Count of catalog loader activations by outcome.",
		}, []string{"result"})
		CatalogFetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_duration_ms",
			Help:      "Latency of catalog fetches in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"op"})
		CartSessions = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_sessions",
			Help:      "Number of live cart sessions.",
		})

		mustRegisterCollector(reg, CartOpsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartOpsTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogLoadTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogLoadTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogFetchLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				CatalogFetchLatency = v
			}
		})
		mustRegisterCollector(reg, CartSessions, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Gauge); ok {
				CartSessions = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, replace func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			replace(are.ExistingCollector)
			return
		}
		panic(err)
	}
}
