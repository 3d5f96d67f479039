package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit-backend/internal/config"
	"shareit-backend/internal/gateway"
	"shareit-backend/internal/logger"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Gateway.Port == 0 {
		log.Fatalf("gateway.port is not configured")
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ShareIt gateway...", "address", cfg.GetGatewayAddress(), "backend", cfg.Gateway.ServerURL)

	client := gateway.NewClient(cfg.Gateway.ServerURL, time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second)
	e := gateway.NewServer(gateway.New(client))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(cfg.GetGatewayAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Gateway server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Gateway shutdown failed", "error", err)
	}
}
