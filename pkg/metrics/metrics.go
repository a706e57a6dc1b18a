package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	cartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart operations by name and outcome.",
		},
		[]string{"operation", "status"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "notify",
			Name:      "signals_total",
			Help:      "Change signals delivered, by signal name and origin.",
		},
		[]string{"signal", "origin"},
	)

	backendRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls to the remote REST API and object storage.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "status"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, cartOperations, notifications, backendRequests)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordCartOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	cartOperations.WithLabelValues(operation, status).Inc()
}

// RecordNotification counts one delivered signal. Scoped names ("cartUpdated:<scope>")
// are folded into their family to keep label cardinality bounded.
func RecordNotification(signal, origin string) {
	family, _, _ := strings.Cut(signal, ":")
	notifications.WithLabelValues(family, origin).Inc()
}

func RecordBackendRequest(service, method string, status int, duration time.Duration) {
	backendRequests.WithLabelValues(service, method, strconv.Itoa(status)).Observe(duration.Seconds())
}
