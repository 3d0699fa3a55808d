package monitor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_api_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pet_api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_api_applications_submitted_total",
			Help: "Applications created, by workflow",
		},
		[]string{"workflow"},
	)

	ApplicationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_api_application_decisions_total",
			Help: "Application status transitions, by workflow and outcome",
		},
		[]string{"workflow", "outcome"},
	)

	ListingApprovals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_api_listing_approvals_total",
			Help: "Listing moderation updates, by resulting flag",
		},
		[]string{"approved"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_api_notifications_created_total",
			Help: "Notification rows written, by type",
		},
		[]string{"type"},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
