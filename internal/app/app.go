// Package app wires configuration, transports and the HTTP router. Both the
// long-running server and the Lambda entrypoint build the service through it.
package app

import (
	"context"
	"errors"

	"portfolio-backend/config"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
	Audit  *audit.Logger
	redis  *goredis.Client
}

// New builds the transports once and injects them into the router. edge
// middleware runs right after CORS.
func New(ctx context.Context, cfg *config.Config, edge ...gin.HandlerFunc) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	auditLog := audit.Default()

	smtpTransport := email.NewSMTPTransport(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Timeout:  cfg.SMTPTimeout,
	})
	mailgunTransport := email.NewMailgunTransport(email.MailgunConfig{
		Domain:  cfg.MailgunDomain,
		APIKey:  cfg.MailgunAPIKey,
		APIBase: cfg.MailgunAPIBase,
		Timeout: cfg.MailgunTimeout,
	})
	if !smtpTransport.IsConfigured() {
		logger.Log.Warn("SMTP transport not configured - every message will use the Mailgun API")
	}
	if !mailgunTransport.IsConfigured() {
		logger.Log.Warn("Mailgun API transport not configured - no fallback when SMTP fails")
	}

	pipeline := email.NewPipeline(
		email.Stage{
			Transport: email.WithCircuitBreaker(smtpTransport, email.DefaultBreakerConfig(cfg.SMTPTimeout)),
			Timeout:   cfg.SMTPTimeout,
		},
		email.Stage{
			Transport: email.WithCircuitBreaker(mailgunTransport, email.DefaultBreakerConfig(cfg.MailgunTimeout)),
			Timeout:   cfg.MailgunTimeout,
		},
	)

	redisClient, err := redis.Connect(ctx, redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	})
	if err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, rate limiting uses in-memory store", "error", err)
		}
		redisClient = nil
	}

	contactUC := usecase.NewContactUsecase(pipeline, email.Mailbox{
		From: cfg.SenderAddress(),
		To:   cfg.ContactAddress(),
	}, validation.New(), auditLog)

	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:   contactUC,
		HealthUC:    usecase.NewHealthUsecase(redisClient, smtpTransport, mailgunTransport),
		RedisClient: redisClient,
		Audit:       auditLog,
		Config:      cfg,
		Edge:        edge,
	})

	logger.Log.Info("Delivery pipeline ready", "stages", pipeline.Stages())

	return &App{Router: router, Audit: auditLog, redis: redisClient}, nil
}

// Close releases the Redis pool and flushes the audit log.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.Audit.Sync()
}
