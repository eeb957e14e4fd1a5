package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collectors registered on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	FilesTotal      *prometheus.CounterVec
	RecordsTotal    prometheus.Counter
	BatchDuration   prometheus.Histogram
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rasd_import_files_total",
				Help: "Ingested workbooks by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		RecordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rasd_import_records_total",
			Help: "Status records extracted from report sheets",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rasd_import_batch_duration_seconds",
			Help:    "Duration of ingestion batches",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
	}
	m.Registry.MustRegister(
		m.FilesTotal,
		m.RecordsTotal,
		m.BatchDuration,
		m.RequestCounter,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFile counts one ingested file
func (m *Metrics) ObserveFile(kind, status string) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(kind, status).Inc()
}

// ObserveRecords adds extracted records
func (m *Metrics) ObserveRecords(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsTotal.Add(float64(n))
}

// ObserveBatch records the duration of a finished batch
func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(d.Seconds())
}

// Middleware gin request counter and latency histogram
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the private registry
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
