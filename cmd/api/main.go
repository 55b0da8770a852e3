package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sniffcheck/sniffcheck-api/cmd/mainconfig"
	"github.com/sniffcheck/sniffcheck-api/internal/api/router"
	appconfig "github.com/sniffcheck/sniffcheck-api/internal/config"
	"github.com/sniffcheck/sniffcheck-api/internal/contact"
	"github.com/sniffcheck/sniffcheck-api/internal/notify"
	"github.com/sniffcheck/sniffcheck-api/internal/observability/metrics"
	"github.com/sniffcheck/sniffcheck-api/internal/ratelimit"
	"github.com/sniffcheck/sniffcheck-api/internal/vitals"
	"github.com/sniffcheck/sniffcheck-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sniffcheck API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := cfg.Validate(logger); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	sender := buildEmailSender(cfg, logger)
	limiter := buildLimiter(cfg, logger)

	contactMetrics := metrics.NewContactMetrics(nil)
	vitalsMetrics := metrics.NewVitalsMetrics(nil)

	contactHandler := contact.NewHandler(limiter, sender, contact.HandlerConfig{
		OperatorEmail:    cfg.OperatorEmail,
		FallbackEmail:    cfg.SendGridFromEmail,
		SendConfirmation: cfg.SendConfirmation,
		EmailTimeout:     cfg.EmailTimeout,
	}, contactMetrics, logger)
	vitalsHandler := vitals.NewHandler(vitalsMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ContactHandler:     contactHandler,
		VitalsHandler:      vitalsHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the provider from config, falling back to the stub
// so local development never needs real credentials.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}

// buildLimiter returns the default per-process fixed-window limiter, or the
// Redis-backed one when REDIS_ADDR is set. Sharing counters across replicas
// is an explicit deployment choice, not the default.
func buildLimiter(cfg *appconfig.Config, logger *logging.Logger) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		return ratelimit.NewFixedWindow(cfg.ContactWindow, cfg.ContactLimit)
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	logger.Info("using redis-backed rate limiter", "addr", cfg.RedisAddr)
	return ratelimit.NewRedisWindow(redis.NewClient(opts), cfg.ContactWindow, cfg.ContactLimit, logger)
}
