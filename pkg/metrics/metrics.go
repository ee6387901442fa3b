package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CapturedResponsesTotal *prometheus.CounterVec
	RecordsTotal           *prometheus.CounterVec
	DuplicateComments      prometheus.Counter
	ScrollsTotal           prometheus.Counter
	HarvestDuration        prometheus.Histogram

	JobsTotal   *prometheus.CounterVec
	JobsInQueue prometheus.Gauge
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		CapturedResponsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_captured_responses_total",
				Help: "Query responses captured from the page, by payload kind.",
			},
			[]string{"kind"}, // feed_page, comment_list, ignored
		),
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_records_total",
				Help: "Records added to result sets, by record kind.",
			},
			[]string{"kind"},
		),
		DuplicateComments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "harvest_duplicate_comments_total",
				Help: "Comments dropped because their id was already in the result set.",
			},
		),
		ScrollsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "harvest_scrolls_total",
				Help: "Scroll steps performed by harvest loops.",
			},
		),
		HarvestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "harvest_duration_seconds",
				Help:    "Duration of complete harvest runs.",
				Buckets: []float64{10, 30, 60, 120, 300, 600, 1200},
			},
		),
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_jobs_total",
				Help: "Harvest jobs finished, by final status.",
			},
			[]string{"status"},
		),
		JobsInQueue: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "harvest_jobs_in_queue",
				Help: "Current number of harvest jobs waiting in the queue.",
			},
		),
	}
}

func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func (m *Metrics) IncCaptured(kind string) {
	if m == nil {
		return
	}
	m.CapturedResponsesTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddRecords(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RecordsTotal.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) AddDuplicateComments(n int) {
	if m == nil || n == 0 {
		return
	}
	m.DuplicateComments.Add(float64(n))
}

func (m *Metrics) IncScrolls() {
	if m == nil {
		return
	}
	m.ScrollsTotal.Inc()
}

func (m *Metrics) ObserveHarvest(d time.Duration) {
	if m == nil {
		return
	}
	m.HarvestDuration.Observe(d.Seconds())
}

func (m *Metrics) IncJobs(status string) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) SetQueueSize(n int64) {
	if m == nil {
		return
	}
	m.JobsInQueue.Set(float64(n))
}
