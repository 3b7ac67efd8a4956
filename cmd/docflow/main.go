package main

import (
	"context"
	"log"

	"docflow/internal/config"
	"docflow/internal/infra/db"
	httpinfra "docflow/internal/infra/http"
	"docflow/internal/migrate"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := config.FromEnv()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.PostgresDSN != "" {
		if err := migrate.Up(context.Background(), cfg.PostgresDSN); err != nil {
			logger.Fatal("migrate up", zap.Error(err))
		}
	}

	store, err := db.NewStore(cfg)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}
	if store.DB == nil {
		logger.Warn("POSTGRES_DSN not set; starting in no-db mode")
	}

	srv, err := httpinfra.NewServer(cfg, store, logger)
	if err != nil {
		logger.Fatal("failed to init server", zap.Error(err))
	}
	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}
