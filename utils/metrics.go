package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemoteCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lokai_remote_calls_total",
			Help: "Calls to the remote AI endpoint by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lokai_remote_call_duration_seconds",
			Help:    "Duration of remote AI endpoint calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lokai_fallbacks_total",
			Help: "Times a pipeline component substituted its fallback value",
		},
		[]string{"component"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lokai_llm_requests_total",
			Help: "Requests served by the AI endpoint by action and cache outcome",
		},
		[]string{"action", "source"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lokai_search_sessions_active",
			Help: "Number of open search sessions",
		},
	)
)
