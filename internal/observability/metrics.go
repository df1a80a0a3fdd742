package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "menu"

// Metrics owns a private registry with the site's counters.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.HistogramVec
	cartMutations *prometheus.CounterVec
	checkoutLinks *prometheus.CounterVec
	waiterCalls   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		cartMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cart_mutations_total",
				Help:      "Cart operations by action",
			},
			[]string{"action"},
		),
		checkoutLinks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "checkout_links_total",
				Help:      "WhatsApp order links generated by language",
			},
			[]string{"lang"},
		),
		waiterCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "waiter_calls_total",
				Help:      "Waiter calls by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.cartMutations,
		m.checkoutLinks,
		m.waiterCalls,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) CartMutation(action string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(action).Inc()
}

func (m *Metrics) CheckoutLink(lang string) {
	if m == nil {
		return
	}
	m.checkoutLinks.WithLabelValues(lang).Inc()
}

func (m *Metrics) WaiterCall(outcome string) {
	if m == nil {
		return
	}
	m.waiterCalls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
