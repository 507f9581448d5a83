package annotate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task outcomes
const (
	outcomeSuccess     = "success"
	outcomeConnect     = "connect_error"
	outcomeQuery       = "query_error"
	outcomePlanFormat  = "plan_format_error"
	outcomeInterrupted = "interrupted"
)

// Metrics instruments an annotation run
type Metrics struct {
	tasks    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	rows     prometheus.Counter
}

// NewMetrics registers the annotation metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		tasks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cardgen_annotate_tasks_total",
			Help: "Annotation tasks finished, by outcome.",
		}, []string{"outcome"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cardgen_annotate_task_duration_seconds",
			Help:    "Time from connecting to parsing the plan of one task.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 9),
		}, []string{"outcome"}),
		inFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "cardgen_annotate_tasks_in_flight",
			Help: "Tasks currently running.",
		}),
		rows: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cardgen_annotate_rows_written_total",
			Help: "Annotated rows appended to the output.",
		}),
	}
}
