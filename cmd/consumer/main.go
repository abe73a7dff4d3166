// Command consumer drains prediction.completed events into logs/predictions.log.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/fake-news-api/internal/config"
	"github.com/iliyamo/fake-news-api/internal/logger"
	"github.com/iliyamo/fake-news-api/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: cfg.Events.URL, LogDir: os.Getenv("PREDICTION_LOG_DIR"), Log: log}
	log.Info("Starting prediction consumer", zap.String("queue", queue.PredictionQueueName))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped", zap.Error(err))
		return
	}
	log.Info("Consumer exited")
}
