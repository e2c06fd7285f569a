package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	"portfolio-backend/internal/app"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/logger"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form relay for the portfolio site. SMTP first, Mailgun API as fallback.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.IsProduction())
	audit.Init("portfolio-backend", cfg.GinMode)
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port)

	// 3. Wire transports, usecases and router
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	application, err := app.New(startCtx, cfg)
	cancelStart()
	if err != nil {
		logger.Log.Error("Failed to build application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	// 4. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// In-flight requests may still be waiting on both delivery stages.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.SMTPTimeout+cfg.MailgunTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
