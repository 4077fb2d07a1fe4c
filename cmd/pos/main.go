package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/app"
	"github.com/spec-kit/pos-terminal/internal/config"
	"github.com/spec-kit/pos-terminal/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := app.New(cfg, logger)
	root.Start(ctx)
	defer root.Stop()

	snap := root.Sessions.Snapshot()
	logger.Info("terminal ready",
		zap.Bool("authenticated", snap.IsAuthenticated),
		zap.String("route", root.History.Current()),
	)
	if snap.User != nil {
		logger.Info("resumed session",
			zap.String("userId", snap.User.ID),
			zap.String("type", snap.User.Type),
		)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
