package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yumzoom_http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yumzoom_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yumzoom_votes_cast_total",
		Help: "Total votes cast across all sessions.",
	})

	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yumzoom_sessions_created_total",
		Help: "Total collaboration sessions created.",
	})

	SessionsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yumzoom_sessions_closed_total",
		Help: "Sessions closed, by trigger (manual or deadline).",
	}, []string{"trigger"})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yumzoom_websocket_connections",
		Help: "Currently connected WebSocket clients.",
	})
)
