package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ctomop"

type Collector struct {
	PatientsTotal   *prometheus.CounterVec
	PatientDuration prometheus.Histogram
	RunsTotal       prometheus.Counter
	LastRunSeconds  prometheus.Gauge

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewCollector registers every metric on reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration on the default registry.
func NewCollector(reg *prometheus.Registry) *Collector {
	f := promauto.With(reg)
	return &Collector{
		PatientsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "patients_total",
			Help:      "Patients processed by outcome (created, updated, skipped, error, not_found).",
		}, []string{"outcome"}),

		PatientDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "patient_duration_seconds",
			Help:      "Time to load, extract and persist one patient summary.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),

		RunsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "runs_total",
			Help:      "Aggregation runs started.",
		}),

		LastRunSeconds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last aggregation run finished.",
		}),

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),

		gatherer: reg,
	}
}

func (c *Collector) ObservePatient(outcome string, d time.Duration) {
	c.PatientsTotal.WithLabelValues(outcome).Inc()
	c.PatientDuration.Observe(d.Seconds())
}

func (c *Collector) RunStarted() {
	c.RunsTotal.Inc()
}

func (c *Collector) RunFinished(at time.Time) {
	c.LastRunSeconds.Set(float64(at.Unix()))
}

// Middleware records request counts and latency labeled by route pattern.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			c.RequestsTotal.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(status)).Inc()
			c.RequestDuration.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
