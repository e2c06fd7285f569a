package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/afex/hystrix-go/hystrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"portfolio-backend/pkg/email"
)

func TestCircuitTransportPassesThrough(t *testing.T) {
	inner := newMockTransport("smtp")
	inner.On("Send", mock.Anything, msg).Return(nil).Once()

	cfg := email.DefaultBreakerConfig(time.Second)
	cfg.Command = "test_pass_through"
	tr := email.WithCircuitBreaker(inner, cfg)

	assert.Equal(t, "smtp", tr.Name())
	assert.NoError(t, tr.Send(context.Background(), msg))
	inner.AssertExpectations(t)
}

func TestCircuitTransportReturnsInnerError(t *testing.T) {
	cause := errors.New("421 try again later")
	inner := newMockTransport("smtp")
	inner.On("Send", mock.Anything, msg).Return(cause).Once()

	cfg := email.DefaultBreakerConfig(time.Second)
	cfg.Command = "test_inner_error"
	err := email.WithCircuitBreaker(inner, cfg).Send(context.Background(), msg)

	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "test_inner_error")
}

func TestCircuitTransportTimeout(t *testing.T) {
	cfg := email.BreakerConfig{
		Command:               "test_timeout",
		Timeout:               20 * time.Millisecond,
		MaxConcurrentRequests: 10,
		SleepWindow:           time.Second,
		ErrorPercentThreshold: 50,
	}
	tr := email.WithCircuitBreaker(blockingTransport{name: "smtp"}, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := tr.Send(ctx, msg)
	assert.ErrorIs(t, err, hystrix.ErrTimeout)
}
