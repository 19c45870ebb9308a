package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "todo_ai"

// Metrics holds the Prometheus collectors exported by the service.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	tasksGenerated prometheus.Counter
}

// MustNewMetrics registers the service collectors with reg. taskCount backs
// the tasks_stored gauge. Registration errors panic, as with promauto.
func MustNewMetrics(reg prometheus.Registerer, taskCount func() int) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by route and status.",
		},
		[]string{"method", "route", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	tasksGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_generated_total",
		Help:      "Tasks created through prompt expansion.",
	})
	collectors := []prometheus.Collector{requests, duration, tasksGenerated}
	if taskCount != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks_stored",
				Help:      "Tasks currently held in memory.",
			},
			func() float64 { return float64(taskCount()) },
		))
	}
	reg.MustRegister(collectors...)

	return &Metrics{
		requests:       requests,
		duration:       duration,
		tasksGenerated: tasksGenerated,
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(seconds)
}

// AddGenerated counts tasks produced by the generate endpoint.
func (m *Metrics) AddGenerated(n int) {
	if m == nil {
		return
	}
	m.tasksGenerated.Add(float64(n))
}
