package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestContactMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewContactMetrics(reg)
	m.ObserveSubmission(OutcomeSuccess)
	m.ObserveSubmission(OutcomeSuccess)
	m.ObserveSubmission(OutcomeSpam)
	m.ObserveEmailSend(0.25)

	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("expected 2 success submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeSpam)); got != 1 {
		t.Errorf("expected 1 spam submission, got %v", got)
	}
}

func TestVitalsMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewVitalsMetrics(reg)
	m.ObserveReport("LCP", "good", 1200)
	m.ObserveReport("CLS", "", 0.1)

	if got := testutil.ToFloat64(m.reportsTotal.WithLabelValues("LCP", "good")); got != 1 {
		t.Errorf("expected 1 LCP report, got %v", got)
	}
	if got := testutil.ToFloat64(m.reportsTotal.WithLabelValues("CLS", "unknown")); got != 1 {
		t.Errorf("expected empty rating recorded as unknown, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var cm *ContactMetrics
	cm.ObserveSubmission(OutcomeInvalid)
	cm.ObserveEmailSend(0.1)

	var vm *VitalsMetrics
	vm.ObserveReport("TTFB", "poor", 900)
}
