package observability

import (
	"strconv"
	"time"

	"mecanica_jobs/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mecanica_jobs"

// Metrics holds every collector the service exports.
type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	conflictRetries *prometheus.CounterVec
	paymentsTotal   *prometheus.CounterVec
	sweepsTotal     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	appInfo         *prometheus.GaugeVec
}

var _ interfaces.ICommandMetrics = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "job",
				Name:      "commands_total",
				Help:      "Job commands processed, by result code.",
			},
			[]string{"command", "result"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "job",
				Name:      "command_duration_seconds",
				Help:      "Job command latency in seconds, retries included.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"command"},
		),
		conflictRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "job",
				Name:      "version_conflict_retries_total",
				Help:      "Optimistic commits retried after losing a version race.",
			},
			[]string{"command"},
		),
		paymentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "charges_total",
				Help:      "Charges sent to the payment gateway.",
			},
			[]string{"kind", "result"},
		),
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sweep",
				Name:      "line_items_total",
				Help:      "Line items handled by the auto-reject sweep.",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		appInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "app",
				Name:      "info",
				Help:      "Static app info for deployment verification.",
			},
			[]string{"service", "version"},
		),
	}
	reg.MustRegister(m.commandsTotal, m.commandDuration, m.conflictRetries, m.paymentsTotal, m.sweepsTotal, m.httpRequests, m.httpDuration, m.appInfo)
	return m
}

func (m *Metrics) SetAppInfo(service, version string) {
	if version == "" {
		version = "dev"
	}
	m.appInfo.WithLabelValues(service, version).Set(1)
}

func (m *Metrics) ObserveCommand(command, result string, elapsed time.Duration) {
	m.commandsTotal.WithLabelValues(command, result).Inc()
	m.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) IncConflictRetry(command string) {
	m.conflictRetries.WithLabelValues(command).Inc()
}

func (m *Metrics) IncPayment(kind, result string) {
	m.paymentsTotal.WithLabelValues(kind, result).Inc()
}

// RecordSweep counts one sweep run.
func (m *Metrics) RecordSweep(autoRejected, failed int) {
	m.sweepsTotal.WithLabelValues("auto_rejected").Add(float64(autoRejected))
	m.sweepsTotal.WithLabelValues("failed").Add(float64(failed))
}

// GinMiddleware records request count/latency. The route label is the gin
// route pattern, so job ids never become label values.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
