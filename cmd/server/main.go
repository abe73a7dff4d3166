package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/fake-news-api/internal/config"
	"github.com/iliyamo/fake-news-api/internal/database"
	"github.com/iliyamo/fake-news-api/internal/handler"
	"github.com/iliyamo/fake-news-api/internal/logger"
	"github.com/iliyamo/fake-news-api/internal/metrics"
	"github.com/iliyamo/fake-news-api/internal/model"
	"github.com/iliyamo/fake-news-api/internal/repository"
	"github.com/iliyamo/fake-news-api/internal/router"
	"github.com/iliyamo/fake-news-api/internal/service"
	"github.com/iliyamo/fake-news-api/internal/textclean"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	// Artifacts must be in memory before the listener opens.
	vectorizer, err := model.LoadVectorizer(cfg.VectorizerPath)
	if err != nil {
		return fmt.Errorf("load vectorizer: %w", err)
	}
	classifier, err := model.LoadClassifier(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load classifier: %w", err)
	}
	if err := model.CheckCompatible(vectorizer, classifier); err != nil {
		return err
	}
	log.Info("Artifacts loaded",
		zap.String("vectorizer", cfg.VectorizerPath),
		zap.String("model", cfg.ModelPath),
		zap.Int("features", vectorizer.NumFeatures()),
		zap.Ints("classes", classifier.Classes()),
	)

	predictor, err := service.NewPredictor(textclean.Default, vectorizer, classifier)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	var recorders []service.Recorder
	deps := router.Deps{Config: cfg, Log: log, Metrics: m}

	var db *sql.DB
	if cfg.DB.Enabled() {
		db, err = database.Open(cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		repo := repository.NewPredictionRepo(db)
		recorders = append(recorders, service.HistoryRecorder{Repo: repo})
		deps.History = &handler.HistoryHandler{Repo: repo}
		log.Info("Prediction history enabled", zap.String("db_host", cfg.DB.Host))
	}

	if cfg.Events.Enabled {
		recorders = append(recorders, &service.PredictionPublisher{URL: cfg.Events.URL})
		log.Info("Prediction events enabled")
	}

	rdb, err := config.NewRedisClient(ctx)
	switch {
	case err == nil:
		defer rdb.Close()
		deps.Redis = rdb
		log.Info("Connected to Redis, prediction cache enabled", zap.Bool("cache_enabled", cfg.Cache.Enabled))
	case errors.Is(err, config.ErrRedisNotConfigured):
	default:
		log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
	}

	predict := handler.NewPredictHandler(predictor, m, log, recorders...)
	deps.Predict = predict
	e := router.New(deps)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("address", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := predict.Wait(shutdownCtx); err != nil {
		log.Warn("Pending prediction records dropped", zap.Error(err))
	}
	log.Info("Server exited")
	return nil
}
