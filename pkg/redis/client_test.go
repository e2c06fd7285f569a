package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectNotConfigured(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestConnectInvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "invalid URL")
}

func TestHealthCheckNilClient(t *testing.T) {
	assert.Error(t, HealthCheck(context.Background(), nil))
}
