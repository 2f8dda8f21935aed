package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		apiRequests,
		apiDuration,
		tokenRefreshes,
	)
}

var (
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_requests_total",
			Help: "Backend API calls by route group and HTTP status class.",
		},
		[]string{"route", "status"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_client_duration_seconds",
			Help:    "Backend API call latency by route group.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route"},
	)

	// result: ok|fail, trigger: unauthorized|proactive
	tokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "Access-token refresh exchanges by trigger and result.",
		},
		[]string{"trigger", "result"},
	)
)

// ObserveAPIRequest records one completed call. status 0 means the request
// never reached the server (network error).
func ObserveAPIRequest(route string, status int, seconds float64) {
	class := "error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	apiRequests.WithLabelValues(norm(route), class).Inc()
	apiDuration.WithLabelValues(norm(route)).Observe(seconds)
}

func IncTokenRefresh(trigger string, ok bool) {
	result := "fail"
	if ok {
		result = "ok"
	}
	tokenRefreshes.WithLabelValues(norm(trigger), result).Inc()
}
