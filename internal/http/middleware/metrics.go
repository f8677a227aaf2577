package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total login attempts by result",
		},
		[]string{"result"},
	)
	CSRFRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "csrf_rejections_total",
			Help: "Total mutating requests rejected by CSRF verification",
		},
	)
	SessionTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_timeouts_total",
			Help: "Total sessions destroyed by the idle timeout",
		},
	)
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(LoginAttempts)
	prometheus.MustRegister(CSRFRejections)
	prometheus.MustRegister(SessionTimeouts)
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
}
