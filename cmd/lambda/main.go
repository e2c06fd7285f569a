package main

import (
	"context"
	"log"

	"portfolio-backend/config"
	_ "portfolio-backend/docs"
	"portfolio-backend/internal/app"
	lambdaadapter "portfolio-backend/internal/delivery/lambda"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/logger"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.IsProduction())
	audit.Init("portfolio-backend-lambda", cfg.GinMode)

	// Transports and the Redis pool are built once per cold start.
	application, err := app.New(context.Background(), cfg, lambdaadapter.GatewayContext())
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	adapter := lambdaadapter.NewAdapter(application.Router)
	lambda.Start(adapter.Handler(cfg.LambdaPayloadVersion))
}
