package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sniffcheck/sniffcheck-api/pkg/logging"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Email provider selection: "sendgrid", "ses" or "stub"
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	OperatorEmail     string
	SendConfirmation  bool
	EmailTimeout      time.Duration

	// Contact form rate limiting
	ContactWindow time.Duration
	ContactLimit  int

	// Optional shared limiter backend. Leave RedisAddr empty for the default
	// per-process limiter.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// ErrMissingEmailConfig is returned by Validate when a production environment
// is missing the email provider key or operator address.
var ErrMissingEmailConfig = errors.New("email provider API key and operator email are required in production")

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "hello@sniffcheck.io"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Sniff Check"),
		OperatorEmail:     getEnv("OPERATOR_EMAIL", ""),
		SendConfirmation:  getEnvAsBool("SEND_CONFIRMATION", false),
		EmailTimeout:      getEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),

		ContactWindow: getEnvAsDuration("CONTACT_WINDOW", 15*time.Minute),
		ContactLimit:  getEnvAsInt("CONTACT_LIMIT", 3),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// IsProduction reports whether the service runs with the production flag.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks configuration required for sending lead notifications.
// Missing email credentials are a hard failure in production and a warning
// everywhere else, so local development works without a provider account.
func (c *Config) Validate(logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}

	missingKey := c.EmailProvider == "sendgrid" && c.SendGridAPIKey == ""
	missingOperator := c.OperatorEmail == ""

	if missingKey || missingOperator {
		if c.IsProduction() {
			return ErrMissingEmailConfig
		}
		logger.Warn("email dispatch not fully configured, lead notifications will use the stub sender",
			"provider", c.EmailProvider,
			"missing_api_key", missingKey,
			"missing_operator_email", missingOperator,
		)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
