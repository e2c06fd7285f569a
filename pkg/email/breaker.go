package email

import (
	"context"
	"fmt"
	"time"

	"github.com/afex/hystrix-go/hystrix"
)

// BreakerConfig configures the hystrix command guarding a transport.
type BreakerConfig struct {
	// Command name; defaults to "email_<transport name>".
	Command               string
	Timeout               time.Duration
	MaxConcurrentRequests int
	SleepWindow           time.Duration
	ErrorPercentThreshold int
}

// DefaultBreakerConfig mirrors the per-call timeout and opens the circuit when
// half of recent sends fail.
func DefaultBreakerConfig(timeout time.Duration) BreakerConfig {
	return BreakerConfig{
		Timeout:               timeout + time.Second, // the stage context fires first
		MaxConcurrentRequests: 100,
		SleepWindow:           5 * time.Second,
		ErrorPercentThreshold: 50,
	}
}

// CircuitTransport wraps a Transport in a hystrix command. Timeouts, an open
// circuit and rejected concurrency all surface as Send errors.
type CircuitTransport struct {
	command string
	next    Transport
}

func WithCircuitBreaker(next Transport, cfg BreakerConfig) *CircuitTransport {
	command := cfg.Command
	if command == "" {
		command = "email_" + next.Name()
	}

	hystrix.ConfigureCommand(command, hystrix.CommandConfig{
		Timeout:               int(cfg.Timeout / time.Millisecond),
		MaxConcurrentRequests: cfg.MaxConcurrentRequests,
		SleepWindow:           int(cfg.SleepWindow / time.Millisecond),
		ErrorPercentThreshold: cfg.ErrorPercentThreshold,
	})

	return &CircuitTransport{command: command, next: next}
}

func (c *CircuitTransport) Name() string { return c.next.Name() }

func (c *CircuitTransport) Send(ctx context.Context, msg Message) error {
	err := hystrix.Do(c.command, func() error {
		return c.next.Send(ctx, msg)
	}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", c.command, err)
	}
	return nil
}
