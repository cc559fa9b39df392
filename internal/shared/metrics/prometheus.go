package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Outbound API metrics
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedika_api_requests_total",
			Help: "Total number of API requests issued to the backend",
		},
		[]string{"method", "path", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vedika_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	apiRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vedika_api_requests_in_flight",
			Help: "Number of API requests currently in flight",
		},
	)

	// Claim workflow metrics
	claimStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedika_claim_status_changes_total",
			Help: "Total number of confirmed claim status changes",
		},
		[]string{"from_status", "to_status"},
	)

	batchUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vedika_batch_updates_total",
			Help: "Total number of batch status updates submitted",
		},
	)

	batchItemsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vedika_batch_items_updated_total",
			Help: "Total number of episodes updated by batch operations",
		},
	)

	batchItemsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vedika_batch_items_failed_total",
			Help: "Total number of episodes rejected by batch operations",
		},
	)

	// UI metrics
	toastsShown = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedika_toasts_shown_total",
			Help: "Total number of toasts shown",
		},
		[]string{"kind"},
	)

	// Auth metrics
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedika_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	forcedLogouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vedika_forced_logouts_total",
			Help: "Total number of sessions cleared by a 401 response",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler for the ops server.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest records one completed backend call.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RequestStarted marks a backend call as in flight; call the returned
// function when it completes.
func RequestStarted() func() {
	apiRequestsInFlight.Inc()
	return apiRequestsInFlight.Dec
}

// RecordStatusChange records a confirmed single-claim status transition.
func RecordStatusChange(from, to string) {
	claimStatusChanges.WithLabelValues(from, to).Inc()
}

// RecordBatchUpdate records the per-item outcome of a batch status update.
func RecordBatchUpdate(updated, failed int) {
	batchUpdatesTotal.Inc()
	batchItemsUpdated.Add(float64(updated))
	batchItemsFailed.Add(float64(failed))
}

// RecordToast records a toast being shown.
func RecordToast(kind string) {
	toastsShown.WithLabelValues(kind).Inc()
}

// RecordLogin records a login attempt outcome: "success", "failure" or
// "throttled".
func RecordLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// RecordForcedLogout records a session cleared by an unauthorized response.
func RecordForcedLogout() {
	forcedLogouts.Inc()
}
