package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessageProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ticketing",
			Subsystem: "messaging",
			Name:      "message_processing_duration_seconds",
			Help:      "Message processing duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"topic", "consumer_group", "status"},
	)

	MessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketing",
			Subsystem: "messaging",
			Name:      "messages_processed_total",
			Help:      "Total number of messages processed",
		},
		[]string{"topic", "consumer_group", "status"},
	)

	MessagesDeadLettered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketing",
			Subsystem: "messaging",
			Name:      "messages_dead_lettered_total",
			Help:      "Total number of messages routed to the dead-letter topic",
		},
		[]string{"topic"},
	)

	MessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketing",
			Subsystem: "messaging",
			Name:      "messages_published_total",
			Help:      "Total number of messages published",
		},
		[]string{"topic", "status"},
	)
)

func init() {
	Registry.MustRegister(
		MessageProcessingDuration,
		MessagesProcessed,
		MessagesDeadLettered,
		MessagesPublished,
	)
}
