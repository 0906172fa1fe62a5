package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ArchiverMetrics instruments the archive worker: job outcomes, upload
// latency and verification poll effort.
type ArchiverMetrics struct {
	registry *prometheus.Registry

	jobsTotal      *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
	jobsInFlight   prometheus.Gauge
	verifyDuration *prometheus.HistogramVec
	taxonomyCreate *prometheus.CounterVec
}

func NewArchiverMetrics(service string) *ArchiverMetrics {
	registry := prometheus.NewRegistry()

	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archiver",
			Subsystem: "worker",
			Name:      "jobs_total",
			Help:      "Total archive jobs by outcome.",
		},
		[]string{"service", "outcome"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "archiver",
			Subsystem: "worker",
			Name:      "job_duration_seconds",
			Help:      "Archive job duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	jobsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "archiver",
			Subsystem: "worker",
			Name:      "jobs_in_flight",
			Help:      "Number of archive jobs currently running.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	verifyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "archiver",
			Subsystem: "worker",
			Name:      "verify_duration_seconds",
			Help:      "Time spent polling the remote task until terminal state.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service"},
	)
	taxonomyCreate := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archiver",
			Subsystem: "worker",
			Name:      "taxonomy_create_total",
			Help:      "Taxonomy entries created remotely, by kind.",
		},
		[]string{"service", "kind"},
	)

	registry.MustRegister(jobsTotal, jobDuration, jobsInFlight, verifyDuration, taxonomyCreate)

	return &ArchiverMetrics{
		registry:       registry,
		jobsTotal:      jobsTotal,
		jobDuration:    jobDuration,
		jobsInFlight:   jobsInFlight,
		verifyDuration: verifyDuration,
		taxonomyCreate: taxonomyCreate,
	}
}

func (m *ArchiverMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ArchiverMetrics) StartJob() {
	m.jobsInFlight.Inc()
}

func (m *ArchiverMetrics) FinishJob(service string, duration time.Duration, success bool) {
	m.jobsInFlight.Dec()

	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.jobsTotal.WithLabelValues(service, outcome).Inc()
	m.jobDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *ArchiverMetrics) ObserveVerifyDuration(service string, duration time.Duration) {
	if duration < 0 {
		return
	}
	m.verifyDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *ArchiverMetrics) TaxonomyCreated(service, kind string) {
	m.taxonomyCreate.WithLabelValues(service, kind).Inc()
}
