package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EngineLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tradecompass",
			Subsystem: "engine",
			Name:      "latency_seconds",
			Help:      "Latency of analysis endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EngineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradecompass",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Errors by analysis endpoint",
		},
		[]string{"endpoint"},
	)

	SetupsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradecompass",
			Subsystem: "engine",
			Name:      "setups_detected_total",
			Help:      "Detected setups by type and status",
		},
		[]string{"setup", "status"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EngineLatency, EngineErrors, SetupsDetected)
	})
}
