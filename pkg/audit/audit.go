// Package audit emits structured contact-form events for operators.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audit event
type EventType string

const (
	EventValidationFailed   EventType = "contact_validation_failed"
	EventStageFailed        EventType = "contact_stage_failed"
	EventDelivered          EventType = "contact_delivered"
	EventDeliveryFailed     EventType = "contact_delivery_failed"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
)

// Event is a single audit record
type Event struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip"
	SubjectValue string                 `json:"subject_value,omitempty"` // masked
	IP           string                 `json:"ip,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Logger writes audit events through zap
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *Logger

// Init builds the production zap logger and makes it the default.
func Init(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	defaultLogger = New(logger, serviceName, environment)
	return defaultLogger
}

// New wraps an existing zap logger.
func New(zapLogger *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{
		zapLogger:   zapLogger,
		serviceName: serviceName,
		environment: environment,
	}
}

// Default returns the process-wide audit logger, creating one if needed.
func Default() *Logger {
	if defaultLogger == nil {
		return Init("portfolio-backend", getEnvironment())
	}
	return defaultLogger
}

// Log writes an event with a level derived from its type
func (l *Logger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment

	level := zapcore.InfoLevel
	switch event.Event {
	case EventValidationFailed, EventStageFailed, EventRateLimitTriggered:
		level = zapcore.WarnLevel
	case EventDeliveryFailed:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

// LogStageFailed records one failed delivery stage with its raw error.
func (l *Logger) LogStageFailed(ctx context.Context, sender, requestID, stage string, err error) {
	l.Log(ctx, Event{
		Event:        EventStageFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(sender),
		RequestID:    requestID,
		Details:      map[string]interface{}{"stage": stage, "error": err.Error()},
	})
}

// LogDelivered records a successful delivery and the stage that made it.
func (l *Logger) LogDelivered(ctx context.Context, sender, requestID, stage string) {
	l.Log(ctx, Event{
		Event:        EventDelivered,
		SubjectType:  "email",
		SubjectValue: MaskEmail(sender),
		RequestID:    requestID,
		Details:      map[string]interface{}{"stage": stage},
	})
}

// LogDeliveryFailed records that every stage failed.
func (l *Logger) LogDeliveryFailed(ctx context.Context, sender, requestID string, stages []string) {
	l.Log(ctx, Event{
		Event:        EventDeliveryFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(sender),
		RequestID:    requestID,
		Details:      map[string]interface{}{"stages": stages},
	})
}

// LogValidationFailed records a rejected submission.
func (l *Logger) LogValidationFailed(ctx context.Context, requestID string, missing []string) {
	l.Log(ctx, Event{
		Event:     EventValidationFailed,
		RequestID: requestID,
		Details:   map[string]interface{}{"missing_fields": missing},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (l *Logger) LogRateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	l.Log(ctx, Event{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := -1
	for i, c := range email {
		if c == '@' {
			atIndex = i
			break
		}
	}
	if atIndex < 0 {
		return HashValue(email)
	}
	if atIndex <= 1 {
		return "***" + email[atIndex:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a short SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func getEnvironment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
