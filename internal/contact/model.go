package contact

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// RevenueBrackets is the closed set of accepted monthlyRevenue values.
// Anything else is rejected; this is an enumeration, not free text.
var RevenueBrackets = []string{"0-5k", "5k-15k", "15k-50k", "50k-100k", "100k+"}

const (
	nameMinLen    = 2
	nameMaxLen    = 100
	messageMinLen = 10
	messageMaxLen = 2000
)

// SubmissionRequest is a contact form submission. It is ephemeral: validated,
// turned into emails, and never persisted.
type SubmissionRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	StoreURL       string `json:"storeUrl,omitempty"`
	MonthlyRevenue string `json:"monthlyRevenue"`
	Message        string `json:"message"`
	Honeypot       string `json:"honeypot"`
}

// IsSpam reports whether the hidden honeypot field was filled in. Real users
// never see the field; any content means an automated submission.
func (r *SubmissionRequest) IsSpam() bool {
	return len(r.Honeypot) > 0
}

// FieldErrors maps field names to human-readable validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Validate checks every field and returns either the normalized submission or
// the full set of field errors. All-or-nothing: a submission is valid only if
// every field passes. Pure function, no side effects.
func Validate(raw SubmissionRequest) (SubmissionRequest, FieldErrors) {
	errs := FieldErrors{}

	name := strings.TrimSpace(raw.Name)
	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		errs["name"] = fmt.Sprintf("must be between %d and %d characters", nameMinLen, nameMaxLen)
	}

	email := strings.ToLower(strings.TrimSpace(raw.Email))
	if !isValidEmail(email) {
		errs["email"] = "must be a valid email address"
	}

	storeURL := strings.TrimSpace(raw.StoreURL)
	if storeURL != "" && !isValidStoreURL(storeURL) {
		errs["storeUrl"] = "must be an absolute http or https URL"
	}

	if !isRevenueBracket(raw.MonthlyRevenue) {
		errs["monthlyRevenue"] = "must be one of: " + strings.Join(RevenueBrackets, ", ")
	}

	message := strings.TrimSpace(raw.Message)
	if n := utf8.RuneCountInString(message); n < messageMinLen || n > messageMaxLen {
		errs["message"] = fmt.Sprintf("must be between %d and %d characters", messageMinLen, messageMaxLen)
	}

	if len(errs) > 0 {
		return SubmissionRequest{}, errs
	}

	return SubmissionRequest{
		Name:           name,
		Email:          email,
		StoreURL:       storeURL,
		MonthlyRevenue: raw.MonthlyRevenue,
		Message:        message,
		Honeypot:       raw.Honeypot,
	}, nil
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms like "Jo <jo@example.com>".
	return addr.Address == email
}

func isValidStoreURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isRevenueBracket(value string) bool {
	for _, b := range RevenueBrackets {
		if value == b {
			return true
		}
	}
	return false
}
