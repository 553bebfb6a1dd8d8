package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitatrack_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "vitatrack_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	AIGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitatrack_ai_generations_total",
			Help: "Content generations by provider and kind",
		},
		[]string{"provider", "kind"},
	)

	GymSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitatrack_gym_syncs_total",
			Help: "Gym server sync attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, AIGenerations, GymSyncs)
}
