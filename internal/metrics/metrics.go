// Package metrics exposes the relay's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hade_relay_http_requests_total",
		Help: "Total HTTP requests processed by the relay",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hade_relay_http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	clientKeyAcquisitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hade_relay_client_key_acquisitions_total",
		Help: "Client key acquisitions grouped by how the key was obtained",
	}, []string{"outcome"})

	replyRelays = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hade_relay_replies_total",
		Help: "Conversational replies relayed grouped by outcome",
	}, []string{"outcome"})
)

// ObserveHTTPRequest records one served request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveClientKey records the outcome of one acquisition.
func ObserveClientKey(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	clientKeyAcquisitions.WithLabelValues(outcome).Inc()
}

// ObserveReply records the outcome of one relayed reply.
func ObserveReply(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	replyRelays.WithLabelValues(outcome).Inc()
}
