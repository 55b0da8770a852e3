package vitals

import (
	"encoding/json"
	"net/http"

	"github.com/sniffcheck/sniffcheck-api/internal/observability/metrics"
	"github.com/sniffcheck/sniffcheck-api/pkg/logging"
)

// MetricNames is the closed set of web-vitals metrics the collector accepts.
var MetricNames = map[string]bool{
	"CLS":  true,
	"FCP":  true,
	"FID":  true,
	"INP":  true,
	"LCP":  true,
	"TTFB": true,
}

var ratings = map[string]bool{
	"good":              true,
	"needs-improvement": true,
	"poor":              true,
}

// Report is a single web-vitals measurement posted by the browser.
type Report struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Value   float64         `json:"value"`
	Delta   float64         `json:"delta"`
	Rating  string          `json:"rating,omitempty"`
	Entries json.RawMessage `json:"entries,omitempty"`
}

// Handler collects performance-metric payloads from the marketing site.
type Handler struct {
	metrics *metrics.VitalsMetrics
	logger  *logging.Logger
}

// NewHandler creates a vitals collection handler.
func NewHandler(m *metrics.VitalsMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{metrics: m, logger: logger}
}

// Collect handles POST /api/vitals requests. Accepted payloads always get a
// 200; only schema failures produce a 400.
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	var report Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if report.ID == "" || !MetricNames[report.Name] {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if report.Rating != "" && !ratings[report.Rating] {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	h.metrics.ObserveReport(report.Name, report.Rating, report.Value)
	h.logger.Debug("vitals report", "metric", report.Name, "value", report.Value, "rating", report.Rating)

	w.WriteHeader(http.StatusOK)
}
