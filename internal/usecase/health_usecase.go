package usecase

import (
	"context"

	"portfolio-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// ConfigurableTransport is a transport that can report missing credentials.
type ConfigurableTransport interface {
	Name() string
	IsConfigured() bool
}

type healthUsecase struct {
	transports []ConfigurableTransport
	redis      *goredis.Client
}

// NewHealthUsecase reports on the given transports; redisClient may be nil.
func NewHealthUsecase(redisClient *goredis.Client, transports ...ConfigurableTransport) HealthUsecase {
	return &healthUsecase{transports: transports, redis: redisClient}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
	}
	for _, t := range u.transports {
		if t.IsConfigured() {
			status[t.Name()] = "configured"
		} else {
			status[t.Name()] = "not_configured"
		}
	}

	switch {
	case u.redis == nil:
		status["rate_limit_store"] = "memory"
	case redis.HealthCheck(ctx, u.redis) != nil:
		status["rate_limit_store"] = "redis_unavailable"
	default:
		status["rate_limit_store"] = "redis"
	}
	return status
}
