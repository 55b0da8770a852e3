package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcome labels.
const (
	OutcomeSuccess       = "success"
	OutcomeSpam          = "spam"
	OutcomeRateLimited   = "rate_limited"
	OutcomeInvalid       = "invalid"
	OutcomeDispatchError = "dispatch_error"
)

// ContactMetrics exposes counters/histograms for the lead submission pipeline.
type ContactMetrics struct {
	submissionsTotal *prometheus.CounterVec
	emailSendSeconds prometheus.Histogram
}

func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sniffcheck",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Total contact form submissions by outcome",
		}, []string{"outcome"}),
		emailSendSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sniffcheck",
			Subsystem: "contact",
			Name:      "email_send_seconds",
			Help:      "Latency of outbound email provider calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.emailSendSeconds)
	return m
}

func (m *ContactMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *ContactMetrics) ObserveEmailSend(seconds float64) {
	if m == nil {
		return
	}
	m.emailSendSeconds.Observe(seconds)
}

// VitalsMetrics records reported web-vitals values.
type VitalsMetrics struct {
	reportsTotal *prometheus.CounterVec
	values       *prometheus.HistogramVec
}

func NewVitalsMetrics(reg prometheus.Registerer) *VitalsMetrics {
	m := &VitalsMetrics{
		reportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sniffcheck",
			Subsystem: "vitals",
			Name:      "reports_total",
			Help:      "Total web-vitals reports by metric and rating",
		}, []string{"metric", "rating"}),
		values: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sniffcheck",
			Subsystem: "vitals",
			Name:      "value",
			Help:      "Reported web-vitals values (ms for timings, score for CLS)",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"metric"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reportsTotal, m.values)
	return m
}

func (m *VitalsMetrics) ObserveReport(metric, rating string, value float64) {
	if m == nil {
		return
	}
	if rating == "" {
		rating = "unknown"
	}
	m.reportsTotal.WithLabelValues(metric, rating).Inc()
	m.values.WithLabelValues(metric).Observe(value)
}
