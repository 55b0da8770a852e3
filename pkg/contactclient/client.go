// Package contactclient is a small client for the contact API that mirrors
// the marketing site's form controller: it tracks submit state, surfaces the
// most specific error message available, and fires an analytics hook exactly
// once per real success response.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// State is the form lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a submission
	// is already pending. The submit affordance is disabled while submitting.
	ErrSubmitInFlight = errors.New("submission already in flight")

	// ErrAlreadySucceeded is returned after a successful submission; success
	// is terminal for a form instance.
	ErrAlreadySucceeded = errors.New("form already submitted successfully")
)

const genericErrorMessage = "Something went wrong. Please try again, or email us directly at hello@sniffcheck.io."

// Submission is the form payload. The honeypot field is always sent empty by
// the real client; it exists so the wire shape matches the API.
type Submission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	StoreURL       string `json:"storeUrl,omitempty"`
	MonthlyRevenue string `json:"monthlyRevenue"`
	Message        string `json:"message"`
	Honeypot       string `json:"honeypot"`
}

// Controller drives the submit/pending/success/error state machine.
type Controller struct {
	endpoint   string
	httpClient *http.Client

	// onLead fires once per successful server response, never on optimistic
	// client-side assumptions.
	onLead func()

	mu          sync.Mutex
	state       State
	lastError   string
	fieldErrors map[string]string
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ctrl *Controller) { ctrl.httpClient = c }
}

// WithLeadCallback sets the analytics hook fired on a real success response.
func WithLeadCallback(fn func()) Option {
	return func(ctrl *Controller) { ctrl.onLead = fn }
}

// New creates a form controller posting to the given contact endpoint URL.
func New(endpoint string, opts ...Option) *Controller {
	ctrl := &Controller{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// State returns the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the user-facing message for the most recent failure.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// FieldErrors returns per-field messages from the most recent validation
// failure, or nil.
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors
}

// Submit posts the form. Retries are manual: after an error the caller may
// Submit again; after success the form instance is done.
func (c *Controller) Submit(ctx context.Context, sub Submission) error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case StateSuccess:
		c.mu.Unlock()
		return ErrAlreadySucceeded
	}
	c.state = StateSubmitting
	c.lastError = ""
	c.fieldErrors = nil
	c.mu.Unlock()

	err := c.post(ctx, sub)

	c.mu.Lock()
	if err != nil {
		c.state = StateError
		c.mu.Unlock()
		return err
	}
	c.state = StateSuccess
	c.mu.Unlock()

	if c.onLead != nil {
		c.onLead()
	}
	return nil
}

func (c *Controller) post(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return c.fail(genericErrorMessage, nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return c.fail(genericErrorMessage, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(genericErrorMessage, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var apiErr struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	// Prefer the server's wording: the rate-limit message carries the exact
	// retry window, field errors say what to fix.
	msg := apiErr.Error
	if msg == "" {
		msg = genericErrorMessage
	}
	return c.fail(msg, apiErr.Fields)
}

func (c *Controller) fail(msg string, fields map[string]string) error {
	c.mu.Lock()
	c.lastError = msg
	c.fieldErrors = fields
	c.mu.Unlock()
	return fmt.Errorf("contactclient: %s", msg)
}
