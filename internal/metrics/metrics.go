// Package metrics defines the Prometheus collectors exposed on the
// status server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesReceived counts inbound plain messages by chat type.
	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iplbot_messages_received_total",
		Help: "Total number of messages received",
	}, []string{"chat_type"})

	// RepliesTotal counts resolved replies by resolution source and
	// reply language.
	RepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iplbot_replies_total",
		Help: "Total number of replies, by resolution source",
	}, []string{"source", "language"})

	// CommandsExecuted counts slash commands by name.
	CommandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iplbot_commands_executed_total",
		Help: "Total number of commands executed",
	}, []string{"command"})

	// AIRequestDuration observes Gemini call latency by operation and
	// outcome.
	AIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "iplbot_ai_request_duration_seconds",
		Help:    "Duration of Gemini AI requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	// RateLimitRejections counts messages dropped by the per-user rate
	// limiter.
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iplbot_rate_limit_rejections_total",
		Help: "Total number of messages rejected by the rate limiter",
	})

	storageMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "iplbot_storage_mode",
		Help: "Currently active storage mode (1 for the live mode)",
	}, []string{"mode"})

	// StorageFailovers counts storage mode transitions.
	StorageFailovers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iplbot_storage_failovers_total",
		Help: "Total number of storage mode transitions",
	})

	// StorageDataSize reports the last estimated dataset size.
	StorageDataSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "iplbot_storage_data_size_bytes",
		Help: "Estimated dataset size reported by the live store",
	})
)

var storageModes = []string{"primary", "backup", "memory"}

// SetStorageMode marks the given mode as live and clears the others.
func SetStorageMode(mode string) {
	for _, m := range storageModes {
		v := 0.0
		if m == mode {
			v = 1.0
		}
		storageMode.WithLabelValues(m).Set(v)
	}
}
