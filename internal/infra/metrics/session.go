package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(authTransitions)
}

var (
	// action: auth_start|auth_success|auth_error|auth_logout|flow_step|flow_email|flow_clear|unknown
	authTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_session_transitions_total",
			Help: "Session store transitions by action kind.",
		},
		[]string{"action"},
	)
)

func IncAuthTransition(action string) {
	authTransitions.WithLabelValues(norm(action)).Inc()
}
