package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/soccer-hub/internal/app"
	"github.com/samvad-hq/soccer-hub/internal/config"
	"github.com/samvad-hq/soccer-hub/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "soccerhub start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("soccerhub starting", "config", map[string]any{
		"app_env":          cfg.Env,
		"http_addr":        cfg.HTTPAddr,
		"storage_type":     cfg.StorageType,
		"fetch_retries":    cfg.FetchMaxRetries,
		"fetch_timeout":    cfg.FetchTimeout.String(),
		"refresh_interval": cfg.RefreshInterval.String(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub, err := app.New(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize soccerhub", "error", err.Error())
		return err
	}

	if err := hub.Run(ctx); err != nil {
		return fmt.Errorf("soccerhub run: %w", err)
	}
	return nil
}
