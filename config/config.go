package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`
	// Mailgun HTTP API (fallback transport)
	MailgunAPIKey  string        `envconfig:"MAILGUN_API_KEY"`
	MailgunDomain  string        `envconfig:"MAILGUN_DOMAIN"`
	MailgunAPIBase string        `envconfig:"MAILGUN_API_BASE"` // empty = US region
	MailgunTimeout time.Duration `envconfig:"MAILGUN_TIMEOUT" default:"10s"`
	// SMTP relay (primary transport)
	SMTPHost     string        `envconfig:"SMTP_HOST" default:"smtp.mailgun.org"`
	SMTPPort     int           `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string        `envconfig:"MAILGUN_SMTP_USER"`
	SMTPPassword string        `envconfig:"MAILGUN_SMTP_PASSWORD"`
	SMTPTimeout  time.Duration `envconfig:"SMTP_TIMEOUT" default:"10s"`
	// Contact routing
	ContactMailbox string `envconfig:"CONTACT_MAILBOX" default:"santosh"`
	ContactEmailTo string `envconfig:"CONTACT_EMAIL_TO"` // overrides <mailbox>@<domain>
	MaxBodyBytes   int64  `envconfig:"MAX_BODY_BYTES" default:"65536"`
	// Redis/Upstash Configuration
	UpstashRedisURL      string `envconfig:"UPSTASH_REDIS_URL"`
	UpstashRedisPassword string `envconfig:"UPSTASH_REDIS_PASSWORD"`
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int `envconfig:"RATE_LIMIT_WINDOW_SECONDS" default:"60"`
	RateLimitContactThreshold int `envconfig:"RATE_LIMIT_CONTACT_THRESHOLD" default:"10"`
	// Proxies whose X-Forwarded-For is believed; empty means the peer address is the client
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
	// Portfolio static files, served for unmatched GET requests when set
	StaticDir string `envconfig:"STATIC_DIR"`
	// API Gateway payload format for cmd/lambda: "1.0" (REST API) or "2.0" (HTTP API)
	LambdaPayloadVersion string `envconfig:"LAMBDA_PAYLOAD_VERSION" default:"1.0"`
}

func LoadConfig() (*Config, error) {
	// Only effective locally; in production the variables come from the platform.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.MailgunDomain = strings.TrimSpace(cfg.MailgunDomain)
	cfg.MailgunAPIBase = strings.TrimRight(cfg.MailgunAPIBase, "/")

	if cfg.MailgunDomain == "" && cfg.ContactEmailTo == "" {
		log.Println("WARNING: MAILGUN_DOMAIN is missing. Contact messages have no recipient.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// ContactAddress is the mailbox contact messages are sent from and to.
func (c *Config) ContactAddress() string {
	if c.ContactEmailTo != "" {
		return c.ContactEmailTo
	}
	if c.MailgunDomain == "" {
		return ""
	}
	return c.ContactMailbox + "@" + c.MailgunDomain
}

// SenderAddress is the envelope/From address. Mailgun only relays for its own
// domain, so the visitor's address is never used here.
func (c *Config) SenderAddress() string {
	if c.MailgunDomain == "" {
		return c.ContactAddress()
	}
	return c.ContactMailbox + "@" + c.MailgunDomain
}

// RateLimitWindow returns the rate limit window as a duration
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
