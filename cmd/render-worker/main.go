package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/cli"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/config"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/document"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting render worker",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)

	// Log configuration (without sensitive data)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	// Initialize Redis client
	redisClient := redis.NewClient(cfg.RedisOptions())

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Initialize template engine and document builders
	engine := template.NewEngine(logger,
		template.WithEscapeHTML(cfg.EscapeHTML),
		template.WithLint(cfg.TemplateLint),
		template.WithMaxRewrites(cfg.MaxRewrites),
		template.WithMaxDepth(cfg.MaxDepth),
	)

	source := document.NewTemplateSource(cfg.TemplateDir)
	if names, err := source.Names(); err != nil {
		logger.Fatal("failed to list templates", zap.Error(err))
	} else {
		logger.Info("templates available", zap.Strings("templates", names))
	}

	chromium := &document.ChromiumEngine{
		BrowserPath:   cfg.ChromeBin,
		Timeout:       cfg.PDFTimeout,
		BlockExternal: true,
	}
	renderer := document.NewService(source, engine, chromium, cli.PDFOptions(cfg), logger)

	// Initialize event publisher and artifact store (Redis implementations)
	publisher := worker.NewRedisPublisher(redisClient, logger)
	artifacts := worker.NewRedisArtifactStore(redisClient, logger)

	// Initialize worker
	w := worker.NewWorker(cfg, redisClient, renderer, publisher, artifacts, logger)

	// Start worker
	if err := w.Start(); err != nil {
		logger.Fatal("failed to start worker", zap.Error(err))
	}

	// Start health server
	healthServer := worker.NewHealthServer(cfg.HealthPort, redisClient, w.Ready, logger)
	if err := healthServer.Start(); err != nil {
		logger.Fatal("failed to start health server", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("render worker running, press Ctrl+C to stop")
	<-sigChan

	logger.Info("shutdown signal received, stopping worker")

	// Stop health server
	if err := healthServer.Stop(); err != nil {
		logger.Error("failed to stop health server", zap.Error(err))
	}

	// Stop worker, letting an in-flight render finish
	if err := w.Stop(cfg.PDFTimeout + 5*time.Second); err != nil {
		logger.Error("failed to stop worker", zap.Error(err))
	}

	if err := chromium.Close(); err != nil {
		logger.Error("failed to close chromium", zap.Error(err))
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		logger.Error("failed to close redis connection", zap.Error(err))
	}

	logger.Info("worker stopped")
}

// initLogger initializes the logger
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
