// Package metrics exposes Prometheus collectors for the storefront API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes.
const (
	CheckoutPlaced         = "placed"
	CheckoutEmptyCart      = "empty_cart"
	CheckoutSignInRequired = "sign_in_required"
	CheckoutInProgress     = "in_progress"
	CheckoutFailed         = "failed"
)

// Metrics owns a private registry so tests and multiple servers never
// collide on global state. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	cartOps   *prometheus.CounterVec
	checkouts *prometheus.CounterVec
	sessions  prometheus.Gauge
	breaker   prometheus.GaugeFunc
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}),
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Cart mutations by operation",
		}, []string{"op"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Checkout attempts by outcome",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_sessions_active",
			Help: "Sessions currently held in memory",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.inFlight, m.cartOps, m.checkouts, m.sessions,
	)
	return m
}

// Middleware records request count, latency and in-flight requests per
// matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requests.WithLabelValues(c.Request.Method, path, status).Inc()
		m.duration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.cartOps.WithLabelValues(op).Inc()
}

func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// WatchCheckoutBreaker exports storefront_checkout_breaker_open, read from
// open on every scrape. Call it once, before serving.
func (m *Metrics) WatchCheckoutBreaker(open func() bool) {
	if m == nil || open == nil {
		return
	}
	m.breaker = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "storefront_checkout_breaker_open",
		Help: "1 while the checkout circuit breaker rejects orders",
	}, func() float64 {
		if open() {
			return 1
		}
		return 0
	})
	m.registry.MustRegister(m.breaker)
}
