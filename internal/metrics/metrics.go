// Package metrics exposes Prometheus counters for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "givespot_http_requests_total",
		Help: "HTTP requests served, by method and status class.",
	}, []string{"method", "status"})

	// LoginAttempts counts charity login attempts by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "givespot_login_attempts_total",
		Help: "Charity login attempts, by outcome (success, failure).",
	}, []string{"outcome"})

	// Registrations counts submitted charity applications by outcome.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "givespot_registrations_total",
		Help: "Charity registration attempts, by outcome (created, rejected).",
	}, []string{"outcome"})

	// ListingQueries counts catalog queries by whether a filter was applied.
	ListingQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "givespot_listing_queries_total",
		Help: "Catalog listing queries, by filter use (filtered, unfiltered).",
	}, []string{"filtered"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StatusClass buckets an HTTP status code into "2xx", "4xx", etc.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
