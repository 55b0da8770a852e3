package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sniffcheck/sniffcheck-api/internal/notify"
	"github.com/sniffcheck/sniffcheck-api/internal/observability/metrics"
	"github.com/sniffcheck/sniffcheck-api/internal/ratelimit"
	"github.com/sniffcheck/sniffcheck-api/pkg/logging"
)

// HandlerConfig holds the dispatch settings for the submission handler.
type HandlerConfig struct {
	OperatorEmail    string
	FallbackEmail    string
	SendConfirmation bool
	EmailTimeout     time.Duration
}

// Handler orchestrates the lead submission pipeline:
// honeypot -> rate limit -> validation -> email dispatch -> response.
// Each stage either passes the request on or terminates it with a final
// outcome; there is no retry and no queueing.
type Handler struct {
	limiter ratelimit.Limiter
	sender  notify.EmailSender
	cfg     HandlerConfig
	metrics *metrics.ContactMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler creates a new contact submission handler.
func NewHandler(limiter ratelimit.Limiter, sender notify.EmailSender, cfg HandlerConfig, m *metrics.ContactMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.EmailTimeout <= 0 {
		cfg.EmailTimeout = 10 * time.Second
	}
	return &Handler{
		limiter: limiter,
		sender:  sender,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Submit handles POST /api/contact requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	// Honeypot trip: respond success-shaped so bots can't tell they were
	// caught, but do no further work. Counted internally only.
	if req.IsSpam() {
		h.logger.Info("honeypot tripped, dropping submission", "remote_ip", clientIP(r))
		h.metrics.ObserveSubmission(metrics.OutcomeSpam)
		writeJSON(w, http.StatusOK, successResponse{Success: true})
		return
	}

	decision := h.limiter.Check(r.Context(), clientIP(r))
	if !decision.Allowed {
		minutes := int(math.Ceil(time.Until(decision.ResetAt).Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		h.metrics.ObserveSubmission(metrics.OutcomeRateLimited)
		w.Header().Set("Retry-After", strconv.Itoa(minutes*60))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: fmt.Sprintf("Too many requests. Please try again in %d minutes.", minutes),
		})
		return
	}

	sub, fieldErrs := Validate(req)
	if fieldErrs != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "Please correct the highlighted fields",
			Fields: fieldErrs,
		})
		return
	}

	data := notify.LeadEmailData{
		Name:           sub.Name,
		Email:          sub.Email,
		StoreURL:       sub.StoreURL,
		MonthlyRevenue: sub.MonthlyRevenue,
		Message:        sub.Message,
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.EmailTimeout)
	defer cancel()

	start := h.now()
	err := h.sender.Send(ctx, notify.LeadNotification(data, h.cfg.OperatorEmail))
	h.metrics.ObserveEmailSend(h.now().Sub(start).Seconds())
	if err != nil {
		// Log enough to diagnose provider outages, never the message body.
		h.logger.Error("lead notification dispatch failed", "error", err, "lead_email", sub.Email)
		h.metrics.ObserveSubmission(metrics.OutcomeDispatchError)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("Something went wrong sending your request. Please try again, or email us directly at %s.", h.cfg.FallbackEmail),
		})
		return
	}

	// Confirmation failure doesn't fail the request: the operator already has
	// the lead.
	if h.cfg.SendConfirmation {
		if err := h.sender.Send(ctx, notify.LeadConfirmation(data)); err != nil {
			h.logger.Warn("confirmation email failed", "error", err, "lead_email", sub.Email)
		}
	}

	h.logger.Info("lead submitted", "lead_email", sub.Email, "revenue_bracket", sub.MonthlyRevenue)
	h.metrics.ObserveSubmission(metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// clientIP extracts the client identifier for rate limiting. chi's RealIP
// middleware rewrites RemoteAddr from X-Forwarded-For/X-Real-Ip upstream.
// An empty result is returned as-is; the limiter always allows traffic it
// cannot attribute.
func clientIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
