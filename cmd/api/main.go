package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shipdesk/internal/app"
	"shipdesk/internal/core/config"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/server"

	"go.uber.org/zap"
)

// @title Shipdesk API
// @version 1.0
// @description EasyPost label purchasing, shipment reconciliation and USPS manifest tracking.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("easypost_mode", cfg.EasyPost.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to initialise application", zap.Error(err))
	}
	defer a.Close()

	srv := server.New(cfg)
	a.Register(srv.App)

	go func() {
		<-ctx.Done()
		l.Info("Shutting down")
		if err := srv.Shutdown(); err != nil {
			l.Error("Shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
