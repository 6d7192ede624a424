package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector counts gate, delivery and generation outcomes. It implements the gate's
// and the dispatcher's observer interfaces.
type MetricsCollector struct {
	serviceName string
	registry    *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	verificationAttempts *prometheus.CounterVec
	consentsCaptured     *prometheus.CounterVec
	summaryFailures      *prometheus.CounterVec
	deliveryAttempts     *prometheus.CounterVec
}

func NewMetricsCollector(serviceName string) *MetricsCollector {
	m := &MetricsCollector{
		serviceName: serviceName,
		registry:    prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code", "service"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "service"},
		),
		verificationAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followup_verification_attempts_total",
				Help: "Verification attempts by outcome",
			},
			[]string{"outcome", "service"},
		),
		consentsCaptured: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followup_consents_captured_total",
				Help: "Submissions with captured consent",
			},
			[]string{"case_kind", "service"},
		),
		summaryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followup_summary_failures_total",
				Help: "Failed summary generations after consent",
			},
			[]string{"case_kind", "service"},
		),
		deliveryAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followup_delivery_attempts_total",
				Help: "Code delivery attempts by channel",
			},
			[]string{"channel", "delivered", "service"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.verificationAttempts,
		m.consentsCaptured,
		m.summaryFailures,
		m.deliveryAttempts,
	)
	return m
}

func (m *MetricsCollector) VerificationAttempt(outcome string) {
	m.verificationAttempts.WithLabelValues(outcome, m.serviceName).Inc()
}

func (m *MetricsCollector) ConsentCaptured(caseKind string) {
	m.consentsCaptured.WithLabelValues(caseKind, m.serviceName).Inc()
}

func (m *MetricsCollector) SummaryFailed(caseKind string) {
	m.summaryFailures.WithLabelValues(caseKind, m.serviceName).Inc()
}

func (m *MetricsCollector) DeliveryAttempt(channel string, delivered bool) {
	m.deliveryAttempts.WithLabelValues(channel, strconv.FormatBool(delivered), m.serviceName).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request metrics labelled with the route template, not the raw path,
// so case IDs never end up in label values.
func (m *MetricsCollector) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), m.serviceName).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, endpoint, m.serviceName).Observe(time.Since(start).Seconds())
	}
}
