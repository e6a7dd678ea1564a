package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TicketsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketing",
			Subsystem: "render",
			Name:      "tickets_rendered_total",
			Help:      "Total number of ticket render attempts",
		},
		[]string{"status"},
	)

	RenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ticketing",
			Subsystem: "render",
			Name:      "render_duration_seconds",
			Help:      "Ticket image render duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)

func init() {
	Registry.MustRegister(TicketsRendered, RenderDuration)
}
